package answerlog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggerFunc func(ctx context.Context, entry Entry) error

func (f loggerFunc) Log(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

func TestMultiLogger_Log(t *testing.T) {
	errWrite := errors.New("disk full")

	tests := []struct {
		name      string
		results   []error
		wantCalls int
		wantErr   bool
	}{
		{name: "no loggers", results: nil},
		{name: "all succeed", results: []error{nil, nil}, wantCalls: 2},
		{name: "a failure does not stop the rest", results: []error{errWrite, nil}, wantCalls: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			var loggers MultiLogger
			for _, result := range tt.results {
				loggers = append(loggers, loggerFunc(func(ctx context.Context, entry Entry) error {
					calls++
					assert.Equal(t, "mo_e", entry.QuestionID)
					return result
				}))
			}

			err := loggers.Log(context.Background(), Entry{QuestionID: "mo_e"})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, errWrite)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewSessionID(t *testing.T) {
	first := NewSessionID()
	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.NotEqual(t, first, NewSessionID())
}
