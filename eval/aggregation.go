package eval

import (
	"fmt"

	"beast/vm"
)

// AggregationEntry is one weighted, optionally-inverted member of an
// AggregationEvaluator.
type AggregationEntry struct {
	Evaluator Evaluator
	Weight    float64
	Invert    bool
}

// AggregationEvaluator combines an ordered collection of sub-evaluators
// into a single weight-normalized score. Inverted entries contribute
// (1 - score) instead of score.
type AggregationEvaluator struct {
	entries []AggregationEntry
}

// NewAggregationEvaluator validates entries up front: every weight must
// be non-negative and every sub-evaluator non-nil.
func NewAggregationEvaluator(entries []AggregationEntry) (*AggregationEvaluator, error) {
	for i, e := range entries {
		if e.Evaluator == nil {
			return nil, fmt.Errorf("%w: entry %d has a nil evaluator", ErrInvalidArgument, i)
		}
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: entry %d has negative weight %f", ErrInvalidArgument, i, e.Weight)
		}
	}
	return &AggregationEvaluator{entries: entries}, nil
}

// Evaluate fails with ErrInvalidState if the aggregator holds no
// entries. Weights are normalized by their sum; an inverted entry
// contributes (1 - score) to the weighted sum.
func (a *AggregationEvaluator) Evaluate(s *vm.VmSession) (float64, error) {
	if len(a.entries) == 0 {
		return 0, fmt.Errorf("%w: aggregation evaluator has no entries", ErrInvalidState)
	}

	var weightSum, scoreSum float64
	for _, e := range a.entries {
		score, err := e.Evaluator.Evaluate(s)
		if err != nil {
			return 0, err
		}
		if e.Invert {
			score = 1 - score
		}
		scoreSum += e.Weight * score
		weightSum += e.Weight
	}
	if weightSum == 0 {
		return 0, nil
	}
	return scoreSum / weightSum, nil
}
