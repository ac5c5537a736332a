package pipe

import (
	"math/rand"

	"beast/program"
)

// FactoryLimits bounds the programs ProgramFactoryPipe generates, the
// same environmental limits a VmSession enforces at runtime.
type FactoryLimits struct {
	ProgramSize      int // target byte length of each generated program
	VariableCount    int32
	StringTableCount int32
	MaxStringSize    int32
}

// ProgramFactory generates one decoder-valid random program.
type ProgramFactory interface {
	Generate(limits FactoryLimits) ([]byte, error)
}

// RandomInstructionFactory emits a random, decoder-valid mix of
// instructions bounded by limits: every declared variable index stays
// in range, no jump instructions are emitted, and every emitted
// opcode is one the decoder recognizes. The source's stub
// (NoOps only) gives evolution no signal to climb, so this generates
// real structural variety instead, per spec.md's explicit redesign
// requirement.
type RandomInstructionFactory struct {
	rng *rand.Rand
}

func NewRandomInstructionFactory(rng *rand.Rand) *RandomInstructionFactory {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &RandomInstructionFactory{rng: rng}
}

func (f *RandomInstructionFactory) Generate(limits FactoryLimits) ([]byte, error) {
	p := program.NewGrowing()
	varCount := limits.VariableCount
	if varCount <= 0 {
		varCount = 4
	}

	declared := f.declarePrologue(p, varCount)
	if len(declared) == 0 {
		if err := p.Terminate(0); err != nil {
			return nil, err
		}
		return p.Bytes(), nil
	}

	for p.Len() < limits.ProgramSize {
		if err := f.emitRandomOperator(p, declared, limits); err != nil {
			continue // an operator that can't legally apply this round is simply skipped
		}
	}
	_ = p.Terminate(0)
	return p.Bytes(), nil
}

func (f *RandomInstructionFactory) declarePrologue(p *program.Program, varCount int32) []int32 {
	n := varCount
	if n > 8 {
		n = 8 // keep prologues small relative to typical program sizes
	}
	declared := make([]int32, 0, n)
	for v := int32(0); v < n; v++ {
		if err := p.DeclareVariable(v, program.Int32); err != nil {
			continue
		}
		declared = append(declared, v)
	}
	return declared
}

func (f *RandomInstructionFactory) pickVar(declared []int32) int32 {
	return declared[f.rng.Intn(len(declared))]
}

// emitRandomOperator appends one randomly-chosen, always-valid operator
// drawing its operands from the declared variable set.
func (f *RandomInstructionFactory) emitRandomOperator(p *program.Program, declared []int32, limits FactoryLimits) error {
	choice := f.rng.Intn(8)
	switch choice {
	case 0:
		return p.NoOp()
	case 1:
		return p.SetVariable(f.pickVar(declared), false, f.rng.Int31())
	case 2:
		return p.AddVariableToVariable(f.pickVar(declared), false, f.pickVar(declared), false)
	case 3:
		return p.SubtractConstantFromVariable(f.pickVar(declared), false, f.rng.Int31())
	case 4:
		return p.BitShiftVariableLeft(f.pickVar(declared), false, int8(f.rng.Intn(33)))
	case 5:
		return p.CompareIfVariableGtVariable(f.pickVar(declared), false, f.pickVar(declared), false, f.pickVar(declared), false)
	case 6:
		if limits.StringTableCount > 0 {
			idx := int32(f.rng.Intn(int(limits.StringTableCount)))
			return p.SetStringTableEntry(idx, "x")
		}
		return p.NoOp()
	default:
		return p.CopyVariable(f.pickVar(declared), false, f.pickVar(declared), false)
	}
}

// ProgramFactoryPipe has no input slots and one output slot; on
// execute it fills the output slot to capacity by calling an injected
// ProgramFactory.
type ProgramFactoryPipe struct {
	*Base

	Factory ProgramFactory
	Limits  FactoryLimits
}

func NewProgramFactoryPipe(name string, slotCapacity int, factory ProgramFactory, limits FactoryLimits) *ProgramFactoryPipe {
	fp := &ProgramFactoryPipe{Factory: factory, Limits: limits}
	fp.Base = NewBase(name, 0, 1, slotCapacity, fp)
	return fp
}

func (fp *ProgramFactoryPipe) Execute(b *Base) error {
	for !b.OutputsAreSaturated() {
		bytes, err := fp.Factory.Generate(fp.Limits)
		if err != nil {
			return err
		}
		if !b.addOutput(0, NewItem(bytes)) {
			break
		}
	}
	return nil
}
