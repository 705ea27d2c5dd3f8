// Package selection picks the next question to ask and summarizes progress
// over a pool of scored questions.
package selection

import (
	"errors"

	"github.com/at-ishikawa/ortografia/internal/scoring"
)

// Problem is anything the engine can schedule. ID must be derived from the
// problem's content: two problems with the same content share an ID.
type Problem interface {
	ID() string
}

// Validator is implemented by problems that can check their own content.
// Restore rejects a problem whose Validate fails.
type Validator interface {
	Validate() error
}

var (
	ErrInvalidParameter = scoring.ErrInvalidParameter
	ErrDuplicateItem    = errors.New("selection: duplicate item")
	ErrUnknownItem      = errors.New("selection: unknown item")
	ErrNoItemsAvailable = errors.New("selection: no items available")
	ErrInvalidState     = errors.New("selection: invalid state")
)
