package selection

import (
	"math"

	"github.com/at-ishikawa/ortografia/internal/scoring"
)

const (
	// ReportingConfidence is the Beta quantile used for reported scores. It sits
	// low so that items with little evidence do not look mastered.
	ReportingConfidence = 0.2
	// AgeDecayRate controls how fast a just-answered item returns to its true
	// score during selection. Smaller values delay repeats longer.
	AgeDecayRate = 0.4
	// JitterAmplitude bounds the random offset added to ReportingConfidence
	// when jitter is requested.
	JitterAmplitude = 0.05
)

// ScoredItem is a problem together with its answer history.
type ScoredItem[P Problem] struct {
	Problem        P
	CorrectCount   int
	IncorrectCount int
	// LastEpoch is the engine epoch of the most recent answer, 0 if never answered.
	LastEpoch int
}

// RecordAnswer folds one answer given at atEpoch into the history.
func (item *ScoredItem[P]) RecordAnswer(correct bool, atEpoch int) {
	if correct {
		item.CorrectCount++
	} else {
		item.IncorrectCount++
	}
	item.LastEpoch = atEpoch
}

// Trials returns the number of recorded answers.
func (item ScoredItem[P]) Trials() int {
	return item.CorrectCount + item.IncorrectCount
}

// CorrectnessScore is the pessimistic estimate of the probability that the
// next answer is correct. It depends only on the counters.
func (item ScoredItem[P]) CorrectnessScore() float64 {
	return scoring.Quantile(item.CorrectCount, item.IncorrectCount, ReportingConfidence)
}

// SelectionUtility ranks the item for selection; lower is asked sooner.
// A just-answered item starts near 1 and decays back to its estimated
// correctness as epochs pass. confidenceOffset shifts the Beta quantile and is
// expected to lie within ±JitterAmplitude; 0 disables jitter.
func (item ScoredItem[P]) SelectionUtility(currentEpoch int, confidenceOffset float64) float64 {
	beta := scoring.Quantile(item.CorrectCount, item.IncorrectCount, ReportingConfidence+confidenceOffset)
	age := float64(currentEpoch - item.LastEpoch)
	decay := math.Exp(-age * AgeDecayRate)
	return decay*1 + (1-decay)*beta
}
