// Package answerlog records every answer given during a quiz session.
package answerlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is a single answer.
type Entry struct {
	ID          int64     `db:"id"`
	SessionID   string    `db:"session_id"`
	AnsweredAt  time.Time `db:"answered_at"`
	Epoch       int       `db:"epoch"`
	QuestionID  string    `db:"question_id"`
	GivenAnswer string    `db:"given_answer"`
	Correct     bool      `db:"is_correct"`
}

//go:generate mockgen -source=entry.go -destination=../mocks/answerlog/mock_logger.go -package=mock_answerlog

// Logger writes answers somewhere durable.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewSessionID returns a random identifier shared by the answers of one session.
func NewSessionID() string {
	return uuid.NewString()
}

// MultiLogger fans entries out to every logger. All loggers are attempted
// even if one fails.
type MultiLogger []Logger

func (loggers MultiLogger) Log(ctx context.Context, entry Entry) error {
	var errs []error
	for _, logger := range loggers {
		if err := logger.Log(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("logger.Log() > %w", errors.Join(errs...))
	}
	return nil
}
