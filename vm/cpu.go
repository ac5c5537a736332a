package vm

import (
	"fmt"

	"beast/opcode"
	"beast/program"
)

// CpuVirtualMachine decodes and dispatches one instruction at a time
// against a VmSession. It carries no mutable state of its own besides
// its logger, so a single instance safely drives many sessions
// sequentially (never concurrently against the same session).
type CpuVirtualMachine struct {
	log *Logger
}

// NewCpuVirtualMachine returns a dispatcher logging through logger (nil
// discards all messages).
func NewCpuVirtualMachine(logger *Logger) *CpuVirtualMachine {
	return &CpuVirtualMachine{log: logger}
}

// Run steps session to completion (Terminated, AtEnd or Abnormal),
// returning the first dispatch error encountered, if any.
func (vm *CpuVirtualMachine) Run(session *VmSession, dryRun bool) error {
	for {
		cont, err := vm.Step(session, dryRun)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// Step decodes and dispatches exactly one instruction. It returns
// false once the session has terminated, reached the end of its
// program, or failed abnormally; true otherwise.
func (vm *CpuVirtualMachine) Step(session *VmSession, dryRun bool) (bool, error) {
	switch session.State() {
	case Terminated, AtEnd, Abnormal:
		return false, nil
	}
	if session.IsAtEnd() {
		session.state = AtEnd
		return false, nil
	}

	at := session.Cursor()
	opByte, err := session.Fetch1()
	if err != nil {
		session.MarkAbnormalExit()
		if vm.log != nil {
			vm.log.Errorf("decode failed at %d: %v", at, err)
		}
		return false, err
	}
	op := opcode.Code(opByte)
	session.InformAboutStep(op, at)

	if err := vm.dispatch(session, op, dryRun); err != nil {
		session.MarkAbnormalExit()
		if vm.log != nil {
			vm.log.Errorf("%s at %d failed: %v", op, at, err)
		}
		return false, err
	}

	if session.WasTerminated() {
		return false, nil
	}
	return !session.IsAtEnd(), nil
}

// --- payload fetch helpers: always consume the documented bytes, live
// or dry-run, so the cursor advances identically in both modes ---

func fetchVarFollow(s *VmSession) (int32, bool, error) {
	v, err := s.Fetch4()
	if err != nil {
		return 0, false, err
	}
	f, err := s.FetchFlag()
	return v, f, err
}

func fetchVarFollowConst(s *VmSession) (int32, bool, int32, error) {
	v, f, err := fetchVarFollow(s)
	if err != nil {
		return 0, false, 0, err
	}
	c, err := s.Fetch4()
	return v, f, c, err
}

func fetchVarFollowPlaces(s *VmSession) (int32, bool, int8, error) {
	v, f, err := fetchVarFollow(s)
	if err != nil {
		return 0, false, 0, err
	}
	p, err := s.FetchI8()
	return v, f, p, err
}

func fetchTwoVar(s *VmSession) (int32, bool, int32, bool, error) {
	a, fa, err := fetchVarFollow(s)
	if err != nil {
		return 0, false, 0, false, err
	}
	b, fb, err := fetchVarFollow(s)
	return a, fa, b, fb, err
}

func fetchThreeVar(s *VmSession) (int32, bool, int32, bool, int32, bool, error) {
	a, fa, b, fb, err := fetchTwoVar(s)
	if err != nil {
		return 0, false, 0, false, 0, false, err
	}
	tgt, ft, err := fetchVarFollow(s)
	return a, fa, b, fb, tgt, ft, err
}

func fetchVarConstTarget(s *VmSession) (int32, bool, int32, int32, bool, error) {
	v, fv, c, err := fetchVarFollowConst(s)
	if err != nil {
		return 0, false, 0, 0, false, err
	}
	tgt, ft, err := fetchVarFollow(s)
	return v, fv, c, tgt, ft, err
}

func fetchString(s *VmSession) ([]byte, error) {
	n, err := s.Fetch2()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	for i := range buf {
		b, err := s.Fetch1()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

// dispatch reads opcode op's documented payload and, unless dryRun is
// set, invokes the corresponding session operation.
func (vm *CpuVirtualMachine) dispatch(s *VmSession, op opcode.Code, dryRun bool) error {
	switch op {
	case opcode.NoOp:
		return nil

	case opcode.DeclareVariable:
		v, err := s.Fetch4()
		if err != nil {
			return err
		}
		kindByte, err := s.Fetch1()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.Declare(v, program.Kind(kindByte))

	case opcode.SetVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		value, err := s.Fetch4()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.Write(v, f, value)

	case opcode.UndeclareVariable:
		v, err := s.Fetch4()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.Undeclare(v)

	case opcode.AddConstantToVariable:
		v, f, c, err := fetchVarFollowConst(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.AddConstantToVariable(v, f, c)

	case opcode.AddVariableToVariable:
		src, fs, dst, fd, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.AddVariableToVariable(src, fs, dst, fd)

	case opcode.SubtractConstantFromVariable:
		v, f, c, err := fetchVarFollowConst(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.SubtractConstantFromVariable(v, f, c)

	case opcode.SubtractVariableFromVariable:
		src, fs, dst, fd, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.SubtractVariableFromVariable(src, fs, dst, fd)

	case opcode.RelativeJumpToVariableAddressIfVariableGt0,
		opcode.RelativeJumpToVariableAddressIfVariableLt0,
		opcode.RelativeJumpToVariableAddressIfVariableEq0,
		opcode.AbsoluteJumpToVariableAddressIfVariableGt0,
		opcode.AbsoluteJumpToVariableAddressIfVariableLt0,
		opcode.AbsoluteJumpToVariableAddressIfVariableEq0:
		cond, fc, addr, fa, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		switch op {
		case opcode.RelativeJumpToVariableAddressIfVariableGt0:
			return s.RelativeJumpToVariableAddressIfVariableGt0(cond, fc, addr, fa)
		case opcode.RelativeJumpToVariableAddressIfVariableLt0:
			return s.RelativeJumpToVariableAddressIfVariableLt0(cond, fc, addr, fa)
		case opcode.RelativeJumpToVariableAddressIfVariableEq0:
			return s.RelativeJumpToVariableAddressIfVariableEq0(cond, fc, addr, fa)
		case opcode.AbsoluteJumpToVariableAddressIfVariableGt0:
			return s.AbsoluteJumpToVariableAddressIfVariableGt0(cond, fc, addr, fa)
		case opcode.AbsoluteJumpToVariableAddressIfVariableLt0:
			return s.AbsoluteJumpToVariableAddressIfVariableLt0(cond, fc, addr, fa)
		default:
			return s.AbsoluteJumpToVariableAddressIfVariableEq0(cond, fc, addr, fa)
		}

	case opcode.RelativeJumpIfVariableGt0,
		opcode.RelativeJumpIfVariableLt0,
		opcode.RelativeJumpIfVariableEq0,
		opcode.AbsoluteJumpIfVariableGt0,
		opcode.AbsoluteJumpIfVariableLt0,
		opcode.AbsoluteJumpIfVariableEq0:
		cond, fc, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		addr, err := s.Fetch4()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		switch op {
		case opcode.RelativeJumpIfVariableGt0:
			return s.RelativeJumpIfVariableGt0(cond, fc, addr)
		case opcode.RelativeJumpIfVariableLt0:
			return s.RelativeJumpIfVariableLt0(cond, fc, addr)
		case opcode.RelativeJumpIfVariableEq0:
			return s.RelativeJumpIfVariableEq0(cond, fc, addr)
		case opcode.AbsoluteJumpIfVariableGt0:
			return s.AbsoluteJumpIfVariableGt0(cond, fc, addr)
		case opcode.AbsoluteJumpIfVariableLt0:
			return s.AbsoluteJumpIfVariableLt0(cond, fc, addr)
		default:
			return s.AbsoluteJumpIfVariableEq0(cond, fc, addr)
		}

	case opcode.LoadMemorySizeIntoVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadMemorySizeIntoVariable(v, f)

	case opcode.CheckIfVariableIsInput:
		src, fs, dst, fd, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.CheckIfVariableIsInput(src, fs, dst, fd)

	case opcode.CheckIfVariableIsOutput:
		src, fs, dst, fd, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.CheckIfVariableIsOutput(src, fs, dst, fd)

	case opcode.LoadInputCountIntoVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadInputCountIntoVariable(v, f)

	case opcode.LoadOutputCountIntoVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadOutputCountIntoVariable(v, f)

	case opcode.LoadCurrentAddressIntoVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadCurrentAddressIntoVariable(v, f)

	case opcode.PrintVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		asChar, err := s.FetchFlag()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PrintVariable(v, f, asChar)

	case opcode.SetStringTableEntry:
		idx, err := s.Fetch4()
		if err != nil {
			return err
		}
		data, err := fetchString(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.SetStringTableEntry(idx, data)

	case opcode.PrintStringFromStringTable:
		idx, err := s.Fetch4()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PrintStringFromStringTable(idx)

	case opcode.LoadStringTableLimitIntoVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadStringTableLimitIntoVariable(v, f)

	case opcode.Terminate:
		code, err := s.FetchI8()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		s.Terminate(code)
		return nil

	case opcode.CopyVariable:
		src, fs, dst, fd, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.CopyVariable(src, fs, dst, fd)

	case opcode.LoadStringItemLengthIntoVariable:
		sidx, err := s.Fetch4()
		if err != nil {
			return err
		}
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadStringItemLengthIntoVariable(sidx, v, f)

	case opcode.LoadStringItemIntoVariables:
		sidx, err := s.Fetch4()
		if err != nil {
			return err
		}
		startVar, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadStringItemIntoVariables(sidx, startVar, f)

	case opcode.PerformSystemCall:
		major, err := s.FetchI8()
		if err != nil {
			return err
		}
		minor, err := s.FetchI8()
		if err != nil {
			return err
		}
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PerformSystemCall(major, minor, v, f)

	case opcode.BitShiftVariableLeft:
		v, f, places, err := fetchVarFollowPlaces(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.BitShiftVariableLeft(v, f, places)

	case opcode.BitShiftVariableRight:
		v, f, places, err := fetchVarFollowPlaces(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.BitShiftVariableRight(v, f, places)

	case opcode.BitWiseInvertVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.BitWiseInvertVariable(v, f)

	case opcode.BitWiseAndTwoVariables:
		a, fa, b, fb, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.BitWiseAndTwoVariables(a, fa, b, fb)

	case opcode.BitWiseOrTwoVariables:
		a, fa, b, fb, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.BitWiseOrTwoVariables(a, fa, b, fb)

	case opcode.BitWiseXorTwoVariables:
		a, fa, b, fb, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.BitWiseXorTwoVariables(a, fa, b, fb)

	case opcode.LoadRandomValueIntoVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadRandomValueIntoVariable(v, f)

	case opcode.ModuloVariableByConstant:
		v, f, c, err := fetchVarFollowConst(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.ModuloVariableByConstant(v, f, c)

	case opcode.ModuloVariableByVariable:
		v, f, m, fm, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.ModuloVariableByVariable(v, f, m, fm)

	case opcode.RotateVariableLeft:
		v, f, places, err := fetchVarFollowPlaces(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.RotateVariableLeft(v, f, places)

	case opcode.RotateVariableRight:
		v, f, places, err := fetchVarFollowPlaces(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.RotateVariableRight(v, f, places)

	case opcode.UnconditionalJumpToAbsoluteAddress:
		addr, err := s.Fetch4()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.UnconditionalJumpToAbsoluteAddress(addr)

	case opcode.UnconditionalJumpToAbsoluteVariableAddress:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.UnconditionalJumpToAbsoluteVariableAddress(v, f)

	case opcode.UnconditionalJumpToRelativeAddress:
		addr, err := s.Fetch4()
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.UnconditionalJumpToRelativeAddress(addr)

	case opcode.UnconditionalJumpToRelativeVariableAddress:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.UnconditionalJumpToRelativeVariableAddress(v, f)

	case opcode.CheckIfInputWasSet:
		v, f, dst, fd, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		set, err := s.CheckIfInputWasSet(v, f)
		if err != nil {
			return err
		}
		return s.Write(dst, fd, boolToInt32(set))

	case opcode.LoadStringTableItemLengthLimitIntoVariable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadStringTableItemLengthLimitIntoVariable(v, f)

	case opcode.PushVariableOnStack:
		stack, fs, v, fv, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PushVariableOnStack(stack, fs, v, fv)

	case opcode.PushConstantOnStack:
		stack, fs, c, err := fetchVarFollowConst(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PushConstantOnStack(stack, fs, c)

	case opcode.PopVariableFromStack:
		stack, fs, v, fv, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PopVariableFromStack(stack, fs, v, fv)

	case opcode.PopFromStack:
		stack, fs, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PopFromStack(stack, fs)

	case opcode.CheckIfStackIsEmpty:
		stack, fs, v, fv, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.CheckIfStackIsEmpty(stack, fs, v, fv)

	case opcode.SwapVariables:
		a, fa, b, fb, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.SwapVariables(a, fa, b, fb)

	case opcode.SetVariableStringTableEntry:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		data, err := fetchString(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.SetVariableStringTableEntry(v, f, data)

	case opcode.PrintVariableStringFromStringTable:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.PrintVariableStringFromStringTable(v, f)

	case opcode.LoadVariableStringItemLengthIntoVariable:
		svar, fs, v, fv, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadVariableStringItemLengthIntoVariable(svar, fs, v, fv)

	case opcode.LoadVariableStringItemIntoVariables:
		svar, fs, start, fv, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.LoadVariableStringItemIntoVariables(svar, fs, start, fv)

	case opcode.TerminateWithVariableReturnCode:
		v, f, err := fetchVarFollow(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.TerminateWithVariable(v, f)

	case opcode.VariableBitShiftVariableLeft:
		v, fv, pv, fp, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.VariableBitShiftVariableLeft(v, fv, pv, fp)

	case opcode.VariableBitShiftVariableRight:
		v, fv, pv, fp, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.VariableBitShiftVariableRight(v, fv, pv, fp)

	case opcode.VariableRotateVariableLeft:
		v, fv, pv, fp, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.VariableRotateVariableLeft(v, fv, pv, fp)

	case opcode.VariableRotateVariableRight:
		v, fv, pv, fp, err := fetchTwoVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		return s.VariableRotateVariableRight(v, fv, pv, fp)

	case opcode.CompareIfVariableGtConstant,
		opcode.CompareIfVariableLtConstant,
		opcode.CompareIfVariableEqConstant,
		opcode.GetMaxOfVariableAndConstant,
		opcode.GetMinOfVariableAndConstant:
		v, fv, c, tgt, ft, err := fetchVarConstTarget(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		switch op {
		case opcode.CompareIfVariableGtConstant:
			return s.CompareIfVariableGtConstant(v, fv, c, tgt, ft)
		case opcode.CompareIfVariableLtConstant:
			return s.CompareIfVariableLtConstant(v, fv, c, tgt, ft)
		case opcode.CompareIfVariableEqConstant:
			return s.CompareIfVariableEqConstant(v, fv, c, tgt, ft)
		case opcode.GetMaxOfVariableAndConstant:
			return s.GetMaxOfVariableAndConstant(v, fv, c, tgt, ft)
		default:
			return s.GetMinOfVariableAndConstant(v, fv, c, tgt, ft)
		}

	case opcode.CompareIfVariableGtVariable,
		opcode.CompareIfVariableLtVariable,
		opcode.CompareIfVariableEqVariable,
		opcode.GetMaxOfVariableAndVariable,
		opcode.GetMinOfVariableAndVariable:
		a, fa, b, fb, tgt, ft, err := fetchThreeVar(s)
		if err != nil {
			return err
		}
		if dryRun {
			return nil
		}
		switch op {
		case opcode.CompareIfVariableGtVariable:
			return s.CompareIfVariableGtVariable(a, fa, b, tgt, fb, ft)
		case opcode.CompareIfVariableLtVariable:
			return s.CompareIfVariableLtVariable(a, fa, b, tgt, fb, ft)
		case opcode.CompareIfVariableEqVariable:
			return s.CompareIfVariableEqVariable(a, fa, b, tgt, fb, ft)
		case opcode.GetMaxOfVariableAndVariable:
			return s.GetMaxOfVariableAndVariable(a, fa, b, tgt, fb, ft)
		default:
			return s.GetMinOfVariableAndVariable(a, fa, b, tgt, fb, ft)
		}

	default:
		return fmt.Errorf("%w: opcode byte 0x%02x", ErrInvalidOpcode, byte(op))
	}
}
