package vm

import (
	mapset "github.com/deckarep/golang-set"

	"beast/opcode"
)

// RuntimeStatistics accumulates counters over a session's execution,
// updated once per decoded instruction by informAboutStep.
type RuntimeStatistics struct {
	StepsExecuted      uint32
	OperatorExecutions map[opcode.Code]uint32
	ExecutedIndices    mapset.Set
	ReturnCode         int8
	AbnormalExit       bool
}

func newRuntimeStatistics() RuntimeStatistics {
	return RuntimeStatistics{
		OperatorExecutions: make(map[opcode.Code]uint32),
		ExecutedIndices:    mapset.NewSet(),
	}
}

// informAboutStep records that the instruction at programIndex with
// opcode op was just decoded and (possibly) executed.
func (s *RuntimeStatistics) informAboutStep(op opcode.Code, programIndex int32) {
	s.StepsExecuted++
	s.OperatorExecutions[op]++
	s.ExecutedIndices.Add(programIndex)
}

// NoopFraction returns the share of executed steps that were NoOp.
func (s *RuntimeStatistics) NoopFraction() float64 {
	if s.StepsExecuted == 0 {
		return 0
	}
	return float64(s.OperatorExecutions[opcode.NoOp]) / float64(s.StepsExecuted)
}
