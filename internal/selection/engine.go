package selection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

const (
	// DefaultScoreDepth is how many of the worst items contribute to AggregateScore.
	DefaultScoreDepth = 20
	// DefaultRankDecayRate is the falloff of AggregateScore weights over rank positions.
	DefaultRankDecayRate = 0.05
)

type options struct {
	rng           *rand.Rand
	scoreDepth    int
	rankDecayRate float64
}

type Option func(*options)

// WithRand sets the random source used for jitter. Tests pass a seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

func WithScoreDepth(depth int) Option {
	return func(o *options) {
		o.scoreDepth = depth
	}
}

func WithRankDecayRate(rate float64) Option {
	return func(o *options) {
		o.rankDecayRate = rate
	}
}

// Engine owns the pool of scored items and the logical clock that advances
// once per recorded answer. It is not safe for concurrent use.
type Engine[P Problem] struct {
	items         map[string]*ScoredItem[P]
	epoch         int
	rng           *rand.Rand
	scoreDepth    int
	rankDecayRate float64
	// clones counts Clone calls so each clone gets its own jitter seed.
	clones int64
}

func NewEngine[P Problem](opts ...Option) *Engine[P] {
	o := options{
		scoreDepth:    DefaultScoreDepth,
		rankDecayRate: DefaultRankDecayRate,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.scoreDepth < 1 {
		o.scoreDepth = DefaultScoreDepth
	}
	if o.rankDecayRate < 0 {
		o.rankDecayRate = DefaultRankDecayRate
	}

	return &Engine[P]{
		items:         make(map[string]*ScoredItem[P]),
		rng:           o.rng,
		scoreDepth:    o.scoreDepth,
		rankDecayRate: o.rankDecayRate,
	}
}

// Add registers a problem with an empty history.
func (e *Engine[P]) Add(problem P) error {
	return e.AddWithHistory(problem, 0, 0)
}

// AddWithHistory registers a problem with counters imported from prior data.
func (e *Engine[P]) AddWithHistory(problem P, correct, incorrect int) error {
	if correct < 0 || incorrect < 0 {
		return fmt.Errorf("%w: negative initial counts (correct=%d, incorrect=%d)", ErrInvalidParameter, correct, incorrect)
	}
	id := problem.ID()
	if _, ok := e.items[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateItem, id)
	}
	e.items[id] = &ScoredItem[P]{
		Problem:        problem,
		CorrectCount:   correct,
		IncorrectCount: incorrect,
	}
	return nil
}

// RecordAnswer records an answer for the item at the current epoch, then
// advances the epoch by one.
func (e *Engine[P]) RecordAnswer(id string, correct bool) error {
	item, ok := e.items[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	item.RecordAnswer(correct, e.epoch)
	e.epoch++
	return nil
}

// KWorst returns up to count items in ascending order of utility. With
// useDecay the utility is SelectionUtility at the current epoch, otherwise
// CorrectnessScore. useJitter only matters together with useDecay.
func (e *Engine[P]) KWorst(count int, useDecay, useJitter bool) []ScoredItem[P] {
	if count <= 0 || len(e.items) == 0 {
		return []ScoredItem[P]{}
	}

	h := make(rankHeap[P], 0, len(e.items))
	for i, id := range e.sortedIDs() {
		item := e.items[id]
		var utility float64
		if useDecay {
			offset := 0.0
			if useJitter {
				offset = (e.rng.Float64()*2 - 1) * JitterAmplitude
			}
			utility = item.SelectionUtility(e.epoch, offset)
		} else {
			utility = item.CorrectnessScore()
		}
		h = append(h, rankEntry[P]{item: item, utility: utility, seq: i})
	}

	return h.popN(count)
}

// NextItem returns the problem that should be asked next.
func (e *Engine[P]) NextItem() (P, error) {
	worst := e.KWorst(1, true, true)
	if len(worst) == 0 {
		var zero P
		return zero, ErrNoItemsAvailable
	}
	return worst[0].Problem, nil
}

// AggregateScore summarizes mastery as a weighted mean of the correctness
// scores of the worst items. The worst item weighs most. An empty pool scores 0.
func (e *Engine[P]) AggregateScore() float64 {
	worst := e.KWorst(e.scoreDepth, false, false)
	if len(worst) == 0 {
		return 0
	}

	var weightSum, score float64
	for i, item := range worst {
		w := math.Exp(-float64(i) * e.rankDecayRate)
		weightSum += w
		score += w * item.CorrectnessScore()
	}
	return score / weightSum
}

// Clone returns an independent deep copy. The clone draws jitter from its own
// source, seeded from e's epoch and clone count; e's source is never read.
func (e *Engine[P]) Clone() *Engine[P] {
	e.clones++
	clone := &Engine[P]{
		items:         make(map[string]*ScoredItem[P], len(e.items)),
		epoch:         e.epoch,
		rng:           rand.New(rand.NewSource(int64(e.epoch)<<32 | e.clones)),
		scoreDepth:    e.scoreDepth,
		rankDecayRate: e.rankDecayRate,
	}
	for id, item := range e.items {
		copied := *item
		clone.items[id] = &copied
	}
	return clone
}

// AnswerTotals sums the counters over all items.
func (e *Engine[P]) AnswerTotals() (correct, incorrect int) {
	for _, item := range e.items {
		correct += item.CorrectCount
		incorrect += item.IncorrectCount
	}
	return correct, incorrect
}

func (e *Engine[P]) Epoch() int {
	return e.epoch
}

func (e *Engine[P]) Len() int {
	return len(e.items)
}

func (e *Engine[P]) ScoreDepth() int {
	return e.scoreDepth
}

// Item returns a copy of the item with the given ID.
func (e *Engine[P]) Item(id string) (ScoredItem[P], bool) {
	item, ok := e.items[id]
	if !ok {
		return ScoredItem[P]{}, false
	}
	return *item, true
}

// Items returns copies of all items ordered by ID.
func (e *Engine[P]) Items() []ScoredItem[P] {
	result := make([]ScoredItem[P], 0, len(e.items))
	for _, id := range e.sortedIDs() {
		result = append(result, *e.items[id])
	}
	return result
}

// Impact is the change of AggregateScore if the next answer to an item were
// correct or incorrect.
type Impact struct {
	IfCorrect   float64
	IfIncorrect float64
}

// WhatIf measures the Impact of the next answer to id on clones, leaving e
// untouched.
func (e *Engine[P]) WhatIf(id string) (Impact, error) {
	if _, ok := e.items[id]; !ok {
		return Impact{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	base := e.AggregateScore()

	var impact Impact
	for _, correct := range []bool{true, false} {
		clone := e.Clone()
		if err := clone.RecordAnswer(id, correct); err != nil {
			return Impact{}, fmt.Errorf("clone.RecordAnswer(%s) > %w", id, err)
		}
		delta := clone.AggregateScore() - base
		if correct {
			impact.IfCorrect = delta
		} else {
			impact.IfIncorrect = delta
		}
	}
	return impact, nil
}

func (e *Engine[P]) sortedIDs() []string {
	ids := make([]string, 0, len(e.items))
	for id := range e.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
