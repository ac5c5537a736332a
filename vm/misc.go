package vm

import "fmt"

// Miscellaneous introspection, string-item and print operators.

func (s *VmSession) LoadMemorySizeIntoVariable(v int32, follow bool) error {
	return s.Write(v, follow, s.cfg.VariableCount)
}

func (s *VmSession) CheckIfVariableIsInput(src int32, fs bool, dst int32, fd bool) error {
	b, err := s.GetVariableBehavior(src, fs)
	if err != nil {
		return err
	}
	return s.Write(dst, fd, boolToInt32(b == Input))
}

func (s *VmSession) CheckIfVariableIsOutput(src int32, fs bool, dst int32, fd bool) error {
	b, err := s.GetVariableBehavior(src, fs)
	if err != nil {
		return err
	}
	return s.Write(dst, fd, boolToInt32(b == Output))
}

func (s *VmSession) countBehavior(want Behavior) int32 {
	var n int32
	for _, sl := range s.variables {
		if sl.behavior == want {
			n++
		}
	}
	return n
}

func (s *VmSession) LoadInputCountIntoVariable(v int32, follow bool) error {
	return s.Write(v, follow, s.countBehavior(Input))
}

func (s *VmSession) LoadOutputCountIntoVariable(v int32, follow bool) error {
	return s.Write(v, follow, s.countBehavior(Output))
}

func (s *VmSession) LoadCurrentAddressIntoVariable(v int32, follow bool) error {
	return s.Write(v, follow, s.cursor)
}

func (s *VmSession) LoadStringTableLimitIntoVariable(v int32, follow bool) error {
	return s.Write(v, follow, s.cfg.StringTableCount)
}

func (s *VmSession) LoadStringTableItemLengthLimitIntoVariable(v int32, follow bool) error {
	return s.Write(v, follow, s.cfg.MaxStringSize)
}

func (s *VmSession) LoadStringItemLengthIntoVariable(sidx int32, v int32, follow bool) error {
	if err := s.checkStringIndex(sidx); err != nil {
		return err
	}
	return s.Write(v, follow, int32(len(s.stringTable[sidx])))
}

func (s *VmSession) LoadStringItemIntoVariables(sidx int32, startVar int32, follow bool) error {
	if err := s.checkStringIndex(sidx); err != nil {
		return err
	}
	data := s.stringTable[sidx]
	base, err := s.Resolve(startVar, follow)
	if err != nil {
		return err
	}
	for i, b := range data {
		if err := s.Write(base+int32(i), false, int32(b)); err != nil {
			return err
		}
	}
	return nil
}

func (s *VmSession) LoadVariableStringItemLengthIntoVariable(svar int32, fs bool, v int32, fv bool) error {
	idxVal, err := s.Read(svar, fs)
	if err != nil {
		return err
	}
	return s.LoadStringItemLengthIntoVariable(idxVal, v, fv)
}

func (s *VmSession) LoadVariableStringItemIntoVariables(svar int32, fs bool, start int32, fv bool) error {
	idxVal, err := s.Read(svar, fs)
	if err != nil {
		return err
	}
	return s.LoadStringItemIntoVariables(idxVal, start, fv)
}

func (s *VmSession) PrintVariable(v int32, follow bool, asChar bool) error {
	if asChar {
		return s.AppendPrintVariableAsChar(v, follow)
	}
	return s.AppendPrintVariableAsInt(v, follow)
}

func (s *VmSession) PrintStringFromStringTable(idx int32) error {
	data, err := s.GetStringTableEntry(idx)
	if err != nil {
		return err
	}
	return s.AppendPrintString(data)
}

func (s *VmSession) PrintVariableStringFromStringTable(v int32, follow bool) error {
	idxVal, err := s.Read(v, follow)
	if err != nil {
		return err
	}
	return s.PrintStringFromStringTable(idxVal)
}

// jumpTarget validates a jump target lies within [0, program_size].
func (s *VmSession) jumpTarget(addr int32) error {
	if addr < 0 || addr > s.prog.Pointer() {
		return fmt.Errorf("%w: target %d outside [0,%d]", ErrInvalidJump, addr, s.prog.Pointer())
	}
	return nil
}

func (s *VmSession) UnconditionalJumpToAbsoluteAddress(addr int32) error {
	if err := s.jumpTarget(addr); err != nil {
		return err
	}
	s.cursor = addr
	return nil
}

func (s *VmSession) UnconditionalJumpToRelativeAddress(addr int32) error {
	return s.UnconditionalJumpToAbsoluteAddress(s.cursor + addr)
}

func (s *VmSession) UnconditionalJumpToAbsoluteVariableAddress(v int32, follow bool) error {
	addr, err := s.Read(v, follow)
	if err != nil {
		return err
	}
	return s.UnconditionalJumpToAbsoluteAddress(addr)
}

func (s *VmSession) UnconditionalJumpToRelativeVariableAddress(v int32, follow bool) error {
	addr, err := s.Read(v, follow)
	if err != nil {
		return err
	}
	return s.UnconditionalJumpToRelativeAddress(addr)
}

// condJump evaluates cond against the requested relation and, if it
// holds, jumps to addr (relative when relative is true).
func (s *VmSession) condJump(cond int32, fc bool, addr int32, relative bool, relation func(int32) bool) error {
	val, err := s.Read(cond, fc)
	if err != nil {
		return err
	}
	if !relation(val) {
		return nil
	}
	if relative {
		return s.UnconditionalJumpToRelativeAddress(addr)
	}
	return s.UnconditionalJumpToAbsoluteAddress(addr)
}

func gt0(v int32) bool { return v > 0 }
func lt0(v int32) bool { return v < 0 }
func eq0(v int32) bool { return v == 0 }

func (s *VmSession) RelativeJumpIfVariableGt0(cond int32, fc bool, addr int32) error {
	return s.condJump(cond, fc, addr, true, gt0)
}

func (s *VmSession) RelativeJumpIfVariableLt0(cond int32, fc bool, addr int32) error {
	return s.condJump(cond, fc, addr, true, lt0)
}

func (s *VmSession) RelativeJumpIfVariableEq0(cond int32, fc bool, addr int32) error {
	return s.condJump(cond, fc, addr, true, eq0)
}

func (s *VmSession) AbsoluteJumpIfVariableGt0(cond int32, fc bool, addr int32) error {
	return s.condJump(cond, fc, addr, false, gt0)
}

func (s *VmSession) AbsoluteJumpIfVariableLt0(cond int32, fc bool, addr int32) error {
	return s.condJump(cond, fc, addr, false, lt0)
}

func (s *VmSession) AbsoluteJumpIfVariableEq0(cond int32, fc bool, addr int32) error {
	return s.condJump(cond, fc, addr, false, eq0)
}

// condJumpVarAddr is condJump's variant for the Jump-To-Variable-Address
// family, where the target itself is read from a variable.
func (s *VmSession) condJumpVarAddr(cond int32, fc bool, addrVar int32, fa bool, relative bool, relation func(int32) bool) error {
	val, err := s.Read(cond, fc)
	if err != nil {
		return err
	}
	if !relation(val) {
		return nil
	}
	addr, err := s.Read(addrVar, fa)
	if err != nil {
		return err
	}
	if relative {
		return s.UnconditionalJumpToRelativeAddress(addr)
	}
	return s.UnconditionalJumpToAbsoluteAddress(addr)
}

func (s *VmSession) RelativeJumpToVariableAddressIfVariableGt0(cond int32, fc bool, addr int32, fa bool) error {
	return s.condJumpVarAddr(cond, fc, addr, fa, true, gt0)
}

func (s *VmSession) RelativeJumpToVariableAddressIfVariableLt0(cond int32, fc bool, addr int32, fa bool) error {
	return s.condJumpVarAddr(cond, fc, addr, fa, true, lt0)
}

func (s *VmSession) RelativeJumpToVariableAddressIfVariableEq0(cond int32, fc bool, addr int32, fa bool) error {
	return s.condJumpVarAddr(cond, fc, addr, fa, true, eq0)
}

func (s *VmSession) AbsoluteJumpToVariableAddressIfVariableGt0(cond int32, fc bool, addr int32, fa bool) error {
	return s.condJumpVarAddr(cond, fc, addr, fa, false, gt0)
}

func (s *VmSession) AbsoluteJumpToVariableAddressIfVariableLt0(cond int32, fc bool, addr int32, fa bool) error {
	return s.condJumpVarAddr(cond, fc, addr, fa, false, lt0)
}

func (s *VmSession) AbsoluteJumpToVariableAddressIfVariableEq0(cond int32, fc bool, addr int32, fa bool) error {
	return s.condJumpVarAddr(cond, fc, addr, fa, false, eq0)
}
