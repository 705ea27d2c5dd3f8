package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/ortografia/internal/answerlog"
	mock_answerlog "github.com/at-ishikawa/ortografia/internal/mocks/answerlog"
	"github.com/at-ishikawa/ortografia/internal/orthography"
	"github.com/at-ishikawa/ortografia/internal/selection"
)

var answeredAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, words ...string) *QuestionEngine {
	t.Helper()
	engine := selection.NewEngine[orthography.Question](selection.WithRand(rand.New(rand.NewSource(42))))
	for _, word := range words {
		questions, err := orthography.FromWord(word, nil)
		require.NoError(t, err)
		for _, q := range questions {
			require.NoError(t, engine.Add(q))
		}
	}
	return engine
}

func newTestPlayCLI(t *testing.T, engine *QuestionEngine, logger answerlog.Logger, input string) (*PlayCLI, *bytes.Buffer, string) {
	t.Helper()
	statePath := filepath.Join(t.TempDir(), "state.json")
	var out bytes.Buffer
	p := NewPlayCLI(engine, statePath, logger, strings.NewReader(input), &out)
	p.now = func() time.Time { return answeredAt }
	return p, &out, statePath
}

func TestPlayCLI_Session(t *testing.T) {
	tests := []struct {
		name        string
		words       []string
		input       string
		setupLogger func(logger *mock_answerlog.MockLogger)
		wantErr     error
		wantEpoch   int
		wantOutput  []string
		validate    func(t *testing.T, engine *QuestionEngine)
	}{
		{
			name:  "Correct answer is recorded and logged",
			words: []string{"może"},
			input: "ż\n",
			setupLogger: func(logger *mock_answerlog.MockLogger) {
				logger.EXPECT().Log(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry answerlog.Entry) error {
						assert.Equal(t, "mo_e", entry.QuestionID)
						assert.Equal(t, "ż", entry.GivenAnswer)
						assert.True(t, entry.Correct)
						assert.Equal(t, 0, entry.Epoch)
						assert.Equal(t, answeredAt, entry.AnsweredAt)
						assert.NotEmpty(t, entry.SessionID)
						return nil
					})
			},
			wantEpoch:  1,
			wantOutput: []string{"Current score: 20.0%.", "Spell the blue part correctly: mo" + "rz/ż" + "e", "Your answer: "},
			validate: func(t *testing.T, engine *QuestionEngine) {
				item, ok := engine.Item("mo_e")
				require.True(t, ok)
				assert.Equal(t, 1, item.CorrectCount)
			},
		},
		{
			name:  "Unrecognized answers are asked again",
			words: []string{"chór"},
			input: "x\nchur\nch\n",
			setupLogger: func(logger *mock_answerlog.MockLogger) {
				logger.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantEpoch:  1,
			wantOutput: []string{"unrecognized answer", "Type"},
		},
		{
			name:  "Whole word answers are accepted",
			words: []string{"morze"},
			input: "może\n",
			setupLogger: func(logger *mock_answerlog.MockLogger) {
				logger.EXPECT().Log(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry answerlog.Entry) error {
						assert.False(t, entry.Correct)
						return nil
					})
			},
			wantEpoch: 1,
			validate: func(t *testing.T, engine *QuestionEngine) {
				item, ok := engine.Item("mo_e")
				require.True(t, ok)
				assert.Equal(t, 1, item.IncorrectCount)
			},
		},
		{
			name:  "Logger failures do not stop the quiz",
			words: []string{"może"},
			input: "rz\n",
			setupLogger: func(logger *mock_answerlog.MockLogger) {
				logger.EXPECT().Log(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantEpoch: 1,
		},
		{
			name:      "Quit ends the session",
			words:     []string{"może"},
			input:     "quit\n",
			wantErr:   errEnd,
			wantEpoch: 0,
		},
		{
			name:      "EOF ends the session",
			words:     []string{"może"},
			input:     "",
			wantErr:   errEnd,
			wantEpoch: 0,
		},
		{
			name:       "No questions",
			input:      "ż\n",
			wantErr:    errEnd,
			wantOutput: []string{"No questions to practice!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			logger := mock_answerlog.NewMockLogger(ctrl)
			if tt.setupLogger != nil {
				tt.setupLogger(logger)
			}

			engine := newTestEngine(t, tt.words...)
			p, out, statePath := newTestPlayCLI(t, engine, logger, tt.input)

			err := p.Session(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantEpoch, engine.Epoch())
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
			if tt.validate != nil {
				tt.validate(t, engine)
			}

			saved, existed, err := LoadEngine(statePath)
			require.NoError(t, err)
			assert.True(t, existed)
			assert.Equal(t, 0, saved.Epoch(), "state is saved before the question")
		})
	}
}

func TestPlayCLI_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mock_answerlog.NewMockLogger(ctrl)
	logger.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	engine := newTestEngine(t, "może", "rzeka")
	p, out, statePath := newTestPlayCLI(t, engine, logger, "ż\nrz\nquit\n")
	p.Greet()

	require.NoError(t, p.Run(context.Background(), p))

	assert.Contains(t, out.String(), "Welcome! Your last session has been restored from")
	assert.Contains(t, out.String(), "change).")

	saved, existed, err := LoadEngine(statePath)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 2, saved.Epoch())
	assert.Equal(t, engine.Snapshot(), saved.Snapshot())
}

func TestLoadEngine(t *testing.T) {
	t.Run("missing file starts empty", func(t *testing.T) {
		engine, existed, err := LoadEngine(filepath.Join(t.TempDir(), "state.yml"))
		require.NoError(t, err)
		assert.False(t, existed)
		assert.Equal(t, 0, engine.Len())
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.yml")
		engine := newTestEngine(t, "może", "chór")
		require.NoError(t, engine.RecordAnswer("mo_e", false))
		require.NoError(t, SaveEngine(path, engine))

		got, existed, err := LoadEngine(path)
		require.NoError(t, err)
		assert.True(t, existed)
		assert.Equal(t, engine.Snapshot(), got.Snapshot())
		assert.Equal(t, engine.AggregateScore(), got.AggregateScore())
	})

	t.Run("json round trip keeps the legacy placeholder form", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		engine := newTestEngine(t, "chór")
		require.NoError(t, engine.RecordAnswer("ch_r", true))
		require.NoError(t, SaveEngine(path, engine))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"placeholder_type": 2`)
		assert.NotContains(t, string(content), `"position"`)

		got, _, err := LoadEngine(path)
		require.NoError(t, err)
		assert.Equal(t, engine.Snapshot(), got.Snapshot())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.txt")
		assert.Error(t, SaveEngine(path, newTestEngine(t)))
	})
}

const legacyState = `{
  "questions": {
    "_aba": {
      "question": {
        "word": "_aba",
        "placeholders": [[0, {"placeholder_type": 1, "value": false, "content": "ż"}]],
        "target_placeholder_idx": %d,
        "id_suffix": ""
      },
      "correct_count": 2,
      "incorrect_count": 1,
      "last_epoch": 3
    },
    "ch_r": {
      "question": {
        "word": "__r",
        "placeholders": [
          [0, {"placeholder_type": 2, "value": true, "content": "ch"}],
          [1, {"placeholder_type": 3, "value": false, "content": "ó"}]
        ],
        "target_placeholder_idx": 1,
        "id_suffix": ""
      },
      "correct_count": 1,
      "incorrect_count": 0,
      "last_epoch": 1
    }
  },
  "current_epoch": 4
}`

func TestLoadEngine_LegacyState(t *testing.T) {
	writeState := func(t *testing.T, target int) string {
		path := filepath.Join(t.TempDir(), "quiz_state.json")
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(legacyState, target)), 0644))
		return path
	}

	t.Run("loads questions and history", func(t *testing.T) {
		engine, existed, err := LoadEngine(writeState(t, 0))
		require.NoError(t, err)
		assert.True(t, existed)
		assert.Equal(t, 4, engine.Epoch())
		assert.Equal(t, 2, engine.Len())

		zaba, ok := engine.Item("_aba")
		require.True(t, ok)
		assert.Equal(t, 2, zaba.CorrectCount)
		assert.Equal(t, 1, zaba.IncorrectCount)
		assert.Equal(t, 3, zaba.LastEpoch)
		assert.Equal(t, "żaba", zaba.Problem.CorrectWord())
		assert.Equal(t, orthography.PlaceholderRZ, zaba.Problem.TargetPlaceholder().Type)

		chor, ok := engine.Item("ch_r")
		require.True(t, ok)
		assert.Equal(t, "chór", chor.Problem.CorrectWord())
		assert.Equal(t, "chur", chor.Problem.IncorrectWord())

		correct, err := chor.Problem.ParseResponse("ó")
		require.NoError(t, err)
		assert.True(t, correct)
	})

	t.Run("target outside the placeholders", func(t *testing.T) {
		_, _, err := LoadEngine(writeState(t, 5))
		assert.ErrorIs(t, err, selection.ErrInvalidState)
		assert.ErrorIs(t, err, orthography.ErrInvalidQuestion)
	})
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		name  string
		last  *AnswerResponse
		score float64
		delta float64
		want  string
	}{
		{name: "first question", score: 0.2, want: "Current score: 20.0%."},
		{name: "correct with gain", last: &AnswerResponse{Correct: true}, score: 0.25, delta: 0.0123, want: "Correct 25.0% (+1.23% change)."},
		{name: "incorrect with loss", last: &AnswerResponse{Revealed: "morze"}, score: 0.19, delta: -0.004, want: "Incorrect (morze) 19.0% (-0.40% change)."},
		{name: "tiny change hidden", last: &AnswerResponse{Correct: true}, score: 0.2, delta: 0.0001, want: "Correct 20.0%."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatScore(tt.last, tt.score, tt.delta))
		})
	}
}
