// Package eval implements the pure scorers BEAST evolves programs
// against: ratio-of-opcode scorers, a weighted aggregator, and two
// scorers that drive a session themselves (passthrough fidelity and
// combined runtime-statistics usefulness).
package eval

import (
	"errors"
	"fmt"

	"beast/opcode"
	"beast/vm"
)

var (
	// ErrInvalidArgument mirrors vm.ErrInvalidArgument for evaluator-local
	// construction failures (negative weight, nil sub-evaluator, ...).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState mirrors vm.ErrInvalidState for evaluator-local
	// failures that depend on session/aggregator state rather than input.
	ErrInvalidState = errors.New("invalid state")
)

// Evaluator scores a session's execution in [0.0, 1.0].
type Evaluator interface {
	Evaluate(s *vm.VmSession) (float64, error)
}

// OperatorUsageEvaluator scores the ratio of one opcode's executions to
// total executed steps.
type OperatorUsageEvaluator struct {
	Op opcode.Code
}

func NewOperatorUsageEvaluator(op opcode.Code) *OperatorUsageEvaluator {
	return &OperatorUsageEvaluator{Op: op}
}

// NoOpEvaluator is OperatorUsageEvaluator fixed to opcode.NoOp.
func NoOpEvaluator() *OperatorUsageEvaluator {
	return NewOperatorUsageEvaluator(opcode.NoOp)
}

func (e *OperatorUsageEvaluator) Evaluate(s *vm.VmSession) (float64, error) {
	stats := s.Statistics()
	if stats.StepsExecuted == 0 {
		return 0, nil
	}
	return float64(stats.OperatorExecutions[e.Op]) / float64(stats.StepsExecuted), nil
}
