// Package scoring estimates the success probability of a question from its
// answer history.
package scoring

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInvalidParameter = errors.New("scoring: invalid parameter")

// Estimate returns the quantile at confidence of the Beta posterior over the
// success probability after observing successes out of trials, starting from a
// uniform prior.
//
// With no trials the posterior is uniform, so Estimate(0, 0, c) == c.
func Estimate(successes, trials int, confidence float64) (float64, error) {
	if successes < 0 || trials < 0 {
		return 0, fmt.Errorf("%w: negative count (successes=%d, trials=%d)", ErrInvalidParameter, successes, trials)
	}
	if successes > trials {
		return 0, fmt.Errorf("%w: successes %d exceed trials %d", ErrInvalidParameter, successes, trials)
	}
	if !(confidence > 0 && confidence < 1) {
		return 0, fmt.Errorf("%w: confidence %v is outside (0, 1)", ErrInvalidParameter, confidence)
	}
	return Quantile(successes, trials-successes, confidence), nil
}

// Quantile is Estimate without argument checks. Callers guarantee non-negative
// counts and a confidence inside [0, 1].
func Quantile(successes, failures int, confidence float64) float64 {
	posterior := distuv.Beta{
		Alpha: 1 + float64(successes),
		Beta:  1 + float64(failures),
	}
	return posterior.Quantile(confidence)
}
