package cli

import (
	"fmt"

	"github.com/at-ishikawa/ortografia/internal/orthography"
	"github.com/at-ishikawa/ortografia/internal/selection"
	"github.com/at-ishikawa/ortografia/internal/statefile"
)

type QuestionEngine = selection.Engine[orthography.Question]

// LoadEngine restores the engine saved at path. When no file exists yet, it
// returns an empty engine and false.
func LoadEngine(path string, opts ...selection.Option) (*QuestionEngine, bool, error) {
	if !statefile.Exists(path) {
		return selection.NewEngine[orthography.Question](opts...), false, nil
	}

	state, err := statefile.Load[selection.State[orthography.Question]](path)
	if err != nil {
		return nil, false, fmt.Errorf("statefile.Load(%s) > %w", path, err)
	}
	engine, err := selection.Restore(state, opts...)
	if err != nil {
		return nil, false, fmt.Errorf("selection.Restore(%s) > %w", path, err)
	}
	return engine, true, nil
}

func SaveEngine(path string, engine *QuestionEngine) error {
	if err := statefile.Save(path, engine.Snapshot()); err != nil {
		return fmt.Errorf("statefile.Save(%s) > %w", path, err)
	}
	return nil
}
