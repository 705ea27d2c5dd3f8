package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name       string
		successes  int
		trials     int
		confidence float64
		want       float64
	}{
		{
			name:       "no trials returns the confidence level",
			successes:  0,
			trials:     0,
			confidence: 0.2,
			want:       0.2,
		},
		{
			name:       "median of a symmetric posterior",
			successes:  3,
			trials:     6,
			confidence: 0.5,
			want:       0.5,
		},
		{
			// Beta(2, 1) has CDF x^2
			name:       "single success",
			successes:  1,
			trials:     1,
			confidence: 0.25,
			want:       0.5,
		},
		{
			// Beta(1, 2) has CDF 1-(1-x)^2
			name:       "single failure",
			successes:  0,
			trials:     1,
			confidence: 0.75,
			want:       0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.successes, tt.trials, tt.confidence)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEstimate_InvalidParameter(t *testing.T) {
	tests := []struct {
		name       string
		successes  int
		trials     int
		confidence float64
	}{
		{name: "negative successes", successes: -1, trials: 2, confidence: 0.2},
		{name: "negative trials", successes: 0, trials: -1, confidence: 0.2},
		{name: "successes exceed trials", successes: 3, trials: 2, confidence: 0.2},
		{name: "zero confidence", successes: 1, trials: 2, confidence: 0},
		{name: "confidence of one", successes: 1, trials: 2, confidence: 1},
		{name: "negative confidence", successes: 1, trials: 2, confidence: -0.5},
		{name: "confidence above one", successes: 1, trials: 2, confidence: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.successes, tt.trials, tt.confidence)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestEstimate_MonotoneInConfidence(t *testing.T) {
	histories := []struct {
		successes int
		trials    int
	}{
		{0, 0}, {0, 5}, {5, 5}, {3, 10}, {9, 10}, {40, 100},
	}
	confidences := []float64{0.01, 0.05, 0.15, 0.2, 0.25, 0.5, 0.8, 0.99}

	for _, h := range histories {
		previous := 0.0
		for _, c := range confidences {
			got, err := Estimate(h.successes, h.trials, c)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, previous, "successes=%d trials=%d confidence=%v", h.successes, h.trials, c)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
			previous = got
		}
	}
}

func TestEstimate_NoTrialsBelowHalf(t *testing.T) {
	for _, c := range []float64{0.01, 0.1, 0.2, 0.3, 0.49} {
		got, err := Estimate(0, 0, c)
		require.NoError(t, err)
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 0.5)
	}
}

func TestEstimate_MoreSuccessesScoreHigher(t *testing.T) {
	previous := 0.0
	for successes := 0; successes <= 10; successes++ {
		got, err := Estimate(successes, 10, 0.2)
		require.NoError(t, err)
		assert.Greater(t, got, previous)
		previous = got
	}
}
