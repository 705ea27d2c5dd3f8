// Package testutil provides shared test helpers for creating config files and state fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/ortografia/internal/orthography"
	"github.com/at-ishikawa/ortografia/internal/selection"
	"github.com/at-ishikawa/ortografia/internal/statefile"
)

// SetupTestConfig creates a minimal config file whose state, dictionary and
// answer log files all live under tmpDir. The words file contains "może" and
// "chór". Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	for _, d := range []string{"data", "dictionaries"} {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}
	wordsFile := CreateWordsFile(t, filepath.Join(tmpDir, "dictionaries", "words.txt"), "może", "chór")

	configContent := fmt.Sprintf(`state_file: %s
dictionary:
  words_file: %s
answer_log:
  csv_file: %s
selection:
  seed: 42
`,
		filepath.Join(tmpDir, "data", "state.json"),
		wordsFile,
		filepath.Join(tmpDir, "data", "answers.csv"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// CreateWordsFile writes one word per line and returns path.
func CreateWordsFile(t *testing.T, path string, words ...string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0644))
	return path
}

// StateFileOption configures optional fields when creating a state file fixture.
type StateFileOption func(*stateFileConfig)

type answer struct {
	questionID string
	correct    bool
}

type stateFileConfig struct {
	answers []answer
}

// WithAnswer records an answer to questionID before the state is saved.
func WithAnswer(questionID string, correct bool) StateFileOption {
	return func(cfg *stateFileConfig) {
		cfg.answers = append(cfg.answers, answer{questionID: questionID, correct: correct})
	}
}

// CreateStateFile saves a state containing every question of words.
func CreateStateFile(t *testing.T, path string, words []string, opts ...StateFileOption) {
	t.Helper()

	var cfg stateFileConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	engine := selection.NewEngine[orthography.Question]()
	for _, word := range words {
		questions, err := orthography.FromWord(word, nil)
		require.NoError(t, err)
		for _, q := range questions {
			require.NoError(t, engine.Add(q))
		}
	}
	for _, a := range cfg.answers {
		require.NoError(t, engine.RecordAnswer(a.questionID, a.correct))
	}

	require.NoError(t, statefile.Save(path, engine.Snapshot()))
}
