package answerlog

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "session_id", "answered_at", "epoch", "question_id", "given_answer", "is_correct"}

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_Create(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	insert := regexp.QuoteMeta("INSERT INTO answer_logs (session_id, answered_at, epoch, question_id, given_answer, is_correct) VALUES (?, ?, ?, ?, ?, ?)")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantID    int64
		wantErr   bool
	}{
		{
			name: "inserts and sets the ID",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).
					WithArgs("s1", now, 3, "mo_e", "rz", false).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			wantID: 7,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			entry := &Entry{SessionID: "s1", AnsweredAt: now, Epoch: 3, QuestionID: "mo_e", GivenAnswer: "rz"}
			err := repo.Create(context.Background(), entry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, entry.ID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_BatchCreate(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		entries   []*Entry
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "creates multiple entries with multi-row insert",
			entries: []*Entry{
				{SessionID: "s1", AnsweredAt: now, Epoch: 0, QuestionID: "mo_e", GivenAnswer: "ż", Correct: true},
				{SessionID: "s1", AnsweredAt: now.Add(time.Second), Epoch: 1, QuestionID: "_ór", GivenAnswer: "h", Correct: false},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO answer_logs (session_id, answered_at, epoch, question_id, given_answer, is_correct) VALUES (?, ?, ?, ?, ?, ?), (?, ?, ?, ?, ?, ?)")).
					WithArgs(
						"s1", now, 0, "mo_e", "ż", true,
						"s1", now.Add(time.Second), 1, "_ór", "h", false,
					).
					WillReturnResult(sqlmock.NewResult(1, 2))
				mock.ExpectCommit()
			},
		},
		{
			name:      "empty slice returns nil",
			entries:   []*Entry{},
			setupMock: func(mock sqlmock.Sqlmock) {},
		},
		{
			name: "db error rolls back",
			entries: []*Entry{
				{SessionID: "s1", AnsweredAt: now, QuestionID: "mo_e", GivenAnswer: "ż", Correct: true},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO answer_logs").WillReturnError(errors.New("duplicate entry"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			err := repo.BatchCreate(context.Background(), tt.entries)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindAll(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT id, session_id, answered_at, epoch, question_id, given_answer, is_correct FROM answer_logs ORDER BY answered_at, id")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []Entry
		wantErr   bool
	}{
		{
			name: "returns all entries",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(columns).
					AddRow(1, "s1", now, 0, "mo_e", "ż", true).
					AddRow(2, "s1", now, 1, "_ór", "h", false)
				mock.ExpectQuery(query).WillReturnRows(rows)
			},
			want: []Entry{
				{ID: 1, SessionID: "s1", AnsweredAt: now, Epoch: 0, QuestionID: "mo_e", GivenAnswer: "ż", Correct: true},
				{ID: 2, SessionID: "s1", AnsweredAt: now, Epoch: 1, QuestionID: "_ór", GivenAnswer: "h", Correct: false},
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindAll(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindByQuestion(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM answer_logs WHERE question_id = ? ORDER BY answered_at, id")).
		WithArgs("mo_e").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(4, "s2", now, 9, "mo_e", "rz", false))

	got, err := repo.FindByQuestion(context.Background(), "mo_e")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: 4, SessionID: "s2", AnsweredAt: now, Epoch: 9, QuestionID: "mo_e", GivenAnswer: "rz"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_FindByQuestionAndAnsweredAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("FROM answer_logs WHERE question_id = ? AND answered_at = ?")

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *Entry
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("mo_e", now).
					WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "s1", now, 0, "mo_e", "ż", true))
			},
			want: &Entry{ID: 1, SessionID: "s1", AnsweredAt: now, QuestionID: "mo_e", GivenAnswer: "ż", Correct: true},
		},
		{
			name: "not found returns nil",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("mo_e", now).WillReturnRows(sqlmock.NewRows(columns))
			},
			want: nil,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindByQuestionAndAnsweredAt(context.Background(), "mo_e", now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
