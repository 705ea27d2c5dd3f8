package selection

import (
	"fmt"
)

// State is the serializable form of an Engine. Tags match the legacy JSON
// state file so existing sessions keep loading, provided the problem type
// reads its own legacy encoding.
type State[P Problem] struct {
	Epoch int                     `json:"current_epoch" yaml:"current_epoch"`
	Items map[string]ItemState[P] `json:"questions" yaml:"questions"`
}

type ItemState[P Problem] struct {
	Problem        P   `json:"question" yaml:"question"`
	CorrectCount   int `json:"correct_count" yaml:"correct_count"`
	IncorrectCount int `json:"incorrect_count" yaml:"incorrect_count"`
	LastEpoch      int `json:"last_epoch" yaml:"last_epoch"`
}

func (e *Engine[P]) Snapshot() State[P] {
	state := State[P]{
		Epoch: e.epoch,
		Items: make(map[string]ItemState[P], len(e.items)),
	}
	for id, item := range e.items {
		state.Items[id] = ItemState[P]{
			Problem:        item.Problem,
			CorrectCount:   item.CorrectCount,
			IncorrectCount: item.IncorrectCount,
			LastEpoch:      item.LastEpoch,
		}
	}
	return state
}

// Restore rebuilds an engine from a snapshot. The snapshot must satisfy the
// engine invariants: keys equal problem IDs, counters are non-negative, no
// item was answered after the snapshot's epoch and problems implementing
// Validator are valid.
func Restore[P Problem](state State[P], opts ...Option) (*Engine[P], error) {
	if state.Epoch < 0 {
		return nil, fmt.Errorf("%w: negative epoch %d", ErrInvalidState, state.Epoch)
	}

	e := NewEngine[P](opts...)
	e.epoch = state.Epoch
	for key, item := range state.Items {
		if v, ok := any(item.Problem).(Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("%w: problem %q: %w", ErrInvalidState, key, err)
			}
		}
		if id := item.Problem.ID(); id != key {
			return nil, fmt.Errorf("%w: key %q does not match problem ID %q", ErrInvalidState, key, id)
		}
		if item.CorrectCount < 0 || item.IncorrectCount < 0 {
			return nil, fmt.Errorf("%w: negative counts for %q", ErrInvalidState, key)
		}
		if item.LastEpoch < 0 || item.LastEpoch > state.Epoch {
			return nil, fmt.Errorf("%w: last epoch %d of %q is outside [0, %d]", ErrInvalidState, item.LastEpoch, key, state.Epoch)
		}
		e.items[key] = &ScoredItem[P]{
			Problem:        item.Problem,
			CorrectCount:   item.CorrectCount,
			IncorrectCount: item.IncorrectCount,
			LastEpoch:      item.LastEpoch,
		}
	}
	return e, nil
}
