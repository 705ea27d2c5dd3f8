package answerlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/ortografia/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/answerlog/mock_repository.go -package=mock_answerlog

// Repository stores answers in a database.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	BatchCreate(ctx context.Context, entries []*Entry) error
	FindAll(ctx context.Context) ([]Entry, error)
	FindByQuestion(ctx context.Context, questionID string) ([]Entry, error)
	FindByQuestionAndAnsweredAt(ctx context.Context, questionID string, answeredAt time.Time) (*Entry, error)
}

const selectColumns = "SELECT id, session_id, answered_at, epoch, question_id, given_answer, is_correct FROM answer_logs"

var insertColumns = []string{"session_id", "answered_at", "epoch", "question_id", "given_answer", "is_correct"}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) Create(ctx context.Context, entry *Entry) error {
	result, err := r.db.ExecContext(ctx,
		database.BuildMultiRowInsert("answer_logs", insertColumns, 1),
		entry.SessionID, entry.AnsweredAt, entry.Epoch, entry.QuestionID, entry.GivenAnswer, entry.Correct)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert answer_log) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	entry.ID = id
	return nil
}

// BatchCreate inserts the entries in a single multi-row INSERT.
func (r *DBRepository) BatchCreate(ctx context.Context, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		query := database.BuildMultiRowInsert("answer_logs", insertColumns, len(entries))
		args := make([]any, 0, len(entries)*len(insertColumns))
		for _, e := range entries {
			args = append(args, e.SessionID, e.AnsweredAt, e.Epoch, e.QuestionID, e.GivenAnswer, e.Correct)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("tx.ExecContext(insert answer_logs) > %w", err)
		}
		return nil
	})
}

func (r *DBRepository) FindAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, selectColumns+" ORDER BY answered_at, id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(answer_logs) > %w", err)
	}
	return entries, nil
}

func (r *DBRepository) FindByQuestion(ctx context.Context, questionID string) ([]Entry, error) {
	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, selectColumns+" WHERE question_id = ? ORDER BY answered_at, id", questionID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(answer_logs) > %w", err)
	}
	return entries, nil
}

// FindByQuestionAndAnsweredAt returns nil when no answer matches.
func (r *DBRepository) FindByQuestionAndAnsweredAt(ctx context.Context, questionID string, answeredAt time.Time) (*Entry, error) {
	var entry Entry
	err := r.db.GetContext(ctx, &entry, selectColumns+" WHERE question_id = ? AND answered_at = ?", questionID, answeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(answer_log) > %w", err)
	}
	return &entry, nil
}

// DBLogger logs answers through a Repository.
type DBLogger struct {
	repo Repository
}

func NewDBLogger(repo Repository) *DBLogger {
	return &DBLogger{repo: repo}
}

func (l *DBLogger) Log(ctx context.Context, entry Entry) error {
	if err := l.repo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("repo.Create() > %w", err)
	}
	return nil
}
