package program

import "beast/opcode"

// This file holds the assembler surface: one method per opcode, each
// validating its arguments and then emitting the opcode byte followed
// by its documented fixed payload (see opcode package and spec §6).

func (p *Program) NoOp() error {
	return p.emit(opcode.NoOp, nil)
}

func (p *Program) DeclareVariable(v int32, kind Kind) error {
	return p.emit(opcode.DeclareVariable, cat(putI32(v), put1(byte(kind))))
}

func (p *Program) SetVariable(v int32, follow bool, value int32) error {
	return p.emit(opcode.SetVariable, cat(putI32(v), putFlag(follow), putI32(value)))
}

func (p *Program) UndeclareVariable(v int32) error {
	return p.emit(opcode.UndeclareVariable, putI32(v))
}

func (p *Program) AddConstantToVariable(v int32, follow bool, c int32) error {
	return p.emit(opcode.AddConstantToVariable, varFollowConst(v, follow, c))
}

func (p *Program) AddVariableToVariable(src int32, fs bool, dst int32, fd bool) error {
	return p.emit(opcode.AddVariableToVariable, twoVar(src, fs, dst, fd))
}

func (p *Program) SubtractConstantFromVariable(v int32, follow bool, c int32) error {
	return p.emit(opcode.SubtractConstantFromVariable, varFollowConst(v, follow, c))
}

func (p *Program) SubtractVariableFromVariable(src int32, fs bool, dst int32, fd bool) error {
	return p.emit(opcode.SubtractVariableFromVariable, twoVar(src, fs, dst, fd))
}

// jumpVarAddr encodes (cond:i32, fc:u8, addr:i32, fa:u8) — the shape
// shared by the six RelJump/AbsJump-To-Variable-Address opcodes.
func jumpVarAddr(cond int32, fc bool, addr int32, fa bool) []byte {
	return twoVar(cond, fc, addr, fa)
}

func (p *Program) RelativeJumpToVariableAddressIfVariableGt0(cond int32, fc bool, addr int32, fa bool) error {
	return p.emit(opcode.RelativeJumpToVariableAddressIfVariableGt0, jumpVarAddr(cond, fc, addr, fa))
}

func (p *Program) RelativeJumpToVariableAddressIfVariableLt0(cond int32, fc bool, addr int32, fa bool) error {
	return p.emit(opcode.RelativeJumpToVariableAddressIfVariableLt0, jumpVarAddr(cond, fc, addr, fa))
}

func (p *Program) RelativeJumpToVariableAddressIfVariableEq0(cond int32, fc bool, addr int32, fa bool) error {
	return p.emit(opcode.RelativeJumpToVariableAddressIfVariableEq0, jumpVarAddr(cond, fc, addr, fa))
}

func (p *Program) AbsoluteJumpToVariableAddressIfVariableGt0(cond int32, fc bool, addr int32, fa bool) error {
	return p.emit(opcode.AbsoluteJumpToVariableAddressIfVariableGt0, jumpVarAddr(cond, fc, addr, fa))
}

func (p *Program) AbsoluteJumpToVariableAddressIfVariableLt0(cond int32, fc bool, addr int32, fa bool) error {
	return p.emit(opcode.AbsoluteJumpToVariableAddressIfVariableLt0, jumpVarAddr(cond, fc, addr, fa))
}

func (p *Program) AbsoluteJumpToVariableAddressIfVariableEq0(cond int32, fc bool, addr int32, fa bool) error {
	return p.emit(opcode.AbsoluteJumpToVariableAddressIfVariableEq0, jumpVarAddr(cond, fc, addr, fa))
}

// jumpConstAddr encodes (cond:i32, fc:u8, addr:i32) — the shape shared
// by the six RelJump/AbsJump-If-Var opcodes with a literal address.
func jumpConstAddr(cond int32, fc bool, addr int32) []byte {
	return cat(putI32(cond), putFlag(fc), putI32(addr))
}

func (p *Program) RelativeJumpIfVariableGt0(cond int32, fc bool, addr int32) error {
	return p.emit(opcode.RelativeJumpIfVariableGt0, jumpConstAddr(cond, fc, addr))
}

func (p *Program) RelativeJumpIfVariableLt0(cond int32, fc bool, addr int32) error {
	return p.emit(opcode.RelativeJumpIfVariableLt0, jumpConstAddr(cond, fc, addr))
}

func (p *Program) RelativeJumpIfVariableEq0(cond int32, fc bool, addr int32) error {
	return p.emit(opcode.RelativeJumpIfVariableEq0, jumpConstAddr(cond, fc, addr))
}

func (p *Program) AbsoluteJumpIfVariableGt0(cond int32, fc bool, addr int32) error {
	return p.emit(opcode.AbsoluteJumpIfVariableGt0, jumpConstAddr(cond, fc, addr))
}

func (p *Program) AbsoluteJumpIfVariableLt0(cond int32, fc bool, addr int32) error {
	return p.emit(opcode.AbsoluteJumpIfVariableLt0, jumpConstAddr(cond, fc, addr))
}

func (p *Program) AbsoluteJumpIfVariableEq0(cond int32, fc bool, addr int32) error {
	return p.emit(opcode.AbsoluteJumpIfVariableEq0, jumpConstAddr(cond, fc, addr))
}

func (p *Program) LoadMemorySizeIntoVariable(v int32, follow bool) error {
	return p.emit(opcode.LoadMemorySizeIntoVariable, varFollow(v, follow))
}

func (p *Program) CheckIfVariableIsInput(src int32, fs bool, dst int32, fd bool) error {
	return p.emit(opcode.CheckIfVariableIsInput, twoVar(src, fs, dst, fd))
}

func (p *Program) CheckIfVariableIsOutput(src int32, fs bool, dst int32, fd bool) error {
	return p.emit(opcode.CheckIfVariableIsOutput, twoVar(src, fs, dst, fd))
}

func (p *Program) LoadInputCountIntoVariable(v int32, follow bool) error {
	return p.emit(opcode.LoadInputCountIntoVariable, varFollow(v, follow))
}

func (p *Program) LoadOutputCountIntoVariable(v int32, follow bool) error {
	return p.emit(opcode.LoadOutputCountIntoVariable, varFollow(v, follow))
}

func (p *Program) LoadCurrentAddressIntoVariable(v int32, follow bool) error {
	return p.emit(opcode.LoadCurrentAddressIntoVariable, varFollow(v, follow))
}

func (p *Program) PrintVariable(v int32, follow bool, asChar bool) error {
	return p.emit(opcode.PrintVariable, cat(putI32(v), putFlag(follow), putFlag(asChar)))
}

func (p *Program) SetStringTableEntry(idx int32, s string) error {
	encoded, err := encodeString([]byte(s))
	if err != nil {
		return err
	}
	return p.emit(opcode.SetStringTableEntry, cat(putI32(idx), encoded))
}

func (p *Program) PrintStringFromStringTable(idx int32) error {
	return p.emit(opcode.PrintStringFromStringTable, putI32(idx))
}

func (p *Program) LoadStringTableLimitIntoVariable(v int32, follow bool) error {
	return p.emit(opcode.LoadStringTableLimitIntoVariable, varFollow(v, follow))
}

func (p *Program) Terminate(code int8) error {
	return p.emit(opcode.Terminate, putI8(code))
}

func (p *Program) CopyVariable(src int32, fs bool, dst int32, fd bool) error {
	return p.emit(opcode.CopyVariable, twoVar(src, fs, dst, fd))
}

func (p *Program) LoadStringItemLengthIntoVariable(sidx int32, v int32, follow bool) error {
	return p.emit(opcode.LoadStringItemLengthIntoVariable, cat(putI32(sidx), putI32(v), putFlag(follow)))
}

func (p *Program) LoadStringItemIntoVariables(sidx int32, startVar int32, follow bool) error {
	return p.emit(opcode.LoadStringItemIntoVariables, cat(putI32(sidx), putI32(startVar), putFlag(follow)))
}

func (p *Program) PerformSystemCall(major int8, minor int8, v int32, follow bool) error {
	return p.emit(opcode.PerformSystemCall, cat(putI8(major), putI8(minor), putI32(v), putFlag(follow)))
}

func (p *Program) BitShiftVariableLeft(v int32, follow bool, places int8) error {
	return p.emit(opcode.BitShiftVariableLeft, varFollowPlaces(v, follow, places))
}

func (p *Program) BitShiftVariableRight(v int32, follow bool, places int8) error {
	return p.emit(opcode.BitShiftVariableRight, varFollowPlaces(v, follow, places))
}

func (p *Program) BitWiseInvertVariable(v int32, follow bool) error {
	return p.emit(opcode.BitWiseInvertVariable, varFollow(v, follow))
}

func (p *Program) BitWiseAndTwoVariables(a int32, fa bool, b int32, fb bool) error {
	return p.emit(opcode.BitWiseAndTwoVariables, twoVar(a, fa, b, fb))
}

func (p *Program) BitWiseOrTwoVariables(a int32, fa bool, b int32, fb bool) error {
	return p.emit(opcode.BitWiseOrTwoVariables, twoVar(a, fa, b, fb))
}

func (p *Program) BitWiseXorTwoVariables(a int32, fa bool, b int32, fb bool) error {
	return p.emit(opcode.BitWiseXorTwoVariables, twoVar(a, fa, b, fb))
}

func (p *Program) LoadRandomValueIntoVariable(v int32, follow bool) error {
	return p.emit(opcode.LoadRandomValueIntoVariable, varFollow(v, follow))
}

func (p *Program) ModuloVariableByConstant(v int32, follow bool, c int32) error {
	return p.emit(opcode.ModuloVariableByConstant, varFollowConst(v, follow, c))
}

func (p *Program) ModuloVariableByVariable(v int32, follow bool, m int32, fm bool) error {
	return p.emit(opcode.ModuloVariableByVariable, twoVar(v, follow, m, fm))
}

func (p *Program) RotateVariableLeft(v int32, follow bool, places int8) error {
	return p.emit(opcode.RotateVariableLeft, varFollowPlaces(v, follow, places))
}

func (p *Program) RotateVariableRight(v int32, follow bool, places int8) error {
	return p.emit(opcode.RotateVariableRight, varFollowPlaces(v, follow, places))
}

func (p *Program) UnconditionalJumpToAbsoluteAddress(addr int32) error {
	return p.emit(opcode.UnconditionalJumpToAbsoluteAddress, putI32(addr))
}

func (p *Program) UnconditionalJumpToAbsoluteVariableAddress(v int32, follow bool) error {
	return p.emit(opcode.UnconditionalJumpToAbsoluteVariableAddress, varFollow(v, follow))
}

func (p *Program) UnconditionalJumpToRelativeAddress(addr int32) error {
	return p.emit(opcode.UnconditionalJumpToRelativeAddress, putI32(addr))
}

func (p *Program) UnconditionalJumpToRelativeVariableAddress(v int32, follow bool) error {
	return p.emit(opcode.UnconditionalJumpToRelativeVariableAddress, varFollow(v, follow))
}

func (p *Program) CheckIfInputWasSet(v int32, follow bool, dst int32, fd bool) error {
	return p.emit(opcode.CheckIfInputWasSet, twoVar(v, follow, dst, fd))
}

func (p *Program) LoadStringTableItemLengthLimitIntoVariable(v int32, follow bool) error {
	return p.emit(opcode.LoadStringTableItemLengthLimitIntoVariable, varFollow(v, follow))
}

func (p *Program) PushVariableOnStack(stack int32, fs bool, v int32, fv bool) error {
	return p.emit(opcode.PushVariableOnStack, twoVar(stack, fs, v, fv))
}

func (p *Program) PushConstantOnStack(stack int32, fs bool, c int32) error {
	return p.emit(opcode.PushConstantOnStack, varFollowConst(stack, fs, c))
}

func (p *Program) PopVariableFromStack(stack int32, fs bool, v int32, fv bool) error {
	return p.emit(opcode.PopVariableFromStack, twoVar(stack, fs, v, fv))
}

func (p *Program) PopFromStack(stack int32, fs bool) error {
	return p.emit(opcode.PopFromStack, varFollow(stack, fs))
}

func (p *Program) CheckIfStackIsEmpty(stack int32, fs bool, v int32, fv bool) error {
	return p.emit(opcode.CheckIfStackIsEmpty, twoVar(stack, fs, v, fv))
}

func (p *Program) SwapVariables(a int32, fa bool, b int32, fb bool) error {
	return p.emit(opcode.SwapVariables, twoVar(a, fa, b, fb))
}

func (p *Program) SetVariableStringTableEntry(v int32, follow bool, s string) error {
	encoded, err := encodeString([]byte(s))
	if err != nil {
		return err
	}
	return p.emit(opcode.SetVariableStringTableEntry, cat(putI32(v), putFlag(follow), encoded))
}

func (p *Program) PrintVariableStringFromStringTable(v int32, follow bool) error {
	return p.emit(opcode.PrintVariableStringFromStringTable, varFollow(v, follow))
}

func (p *Program) LoadVariableStringItemLengthIntoVariable(svar int32, fs bool, v int32, fv bool) error {
	return p.emit(opcode.LoadVariableStringItemLengthIntoVariable, twoVar(svar, fs, v, fv))
}

func (p *Program) LoadVariableStringItemIntoVariables(svar int32, fs bool, start int32, fv bool) error {
	return p.emit(opcode.LoadVariableStringItemIntoVariables, twoVar(svar, fs, start, fv))
}

func (p *Program) TerminateWithVariableReturnCode(v int32, follow bool) error {
	return p.emit(opcode.TerminateWithVariableReturnCode, varFollow(v, follow))
}

// variablePlaces encodes (var:i32, fv:u8, places_var:i32, fp:u8) — the
// shape shared by the four Variable{BitShift,Rotate}{Left,Right} opcodes.
func variablePlaces(v int32, fv bool, placesVar int32, fp bool) []byte {
	return twoVar(v, fv, placesVar, fp)
}

func (p *Program) VariableBitShiftVariableLeft(v int32, fv bool, placesVar int32, fp bool) error {
	return p.emit(opcode.VariableBitShiftVariableLeft, variablePlaces(v, fv, placesVar, fp))
}

func (p *Program) VariableBitShiftVariableRight(v int32, fv bool, placesVar int32, fp bool) error {
	return p.emit(opcode.VariableBitShiftVariableRight, variablePlaces(v, fv, placesVar, fp))
}

func (p *Program) VariableRotateVariableLeft(v int32, fv bool, placesVar int32, fp bool) error {
	return p.emit(opcode.VariableRotateVariableLeft, variablePlaces(v, fv, placesVar, fp))
}

func (p *Program) VariableRotateVariableRight(v int32, fv bool, placesVar int32, fp bool) error {
	return p.emit(opcode.VariableRotateVariableRight, variablePlaces(v, fv, placesVar, fp))
}

func (p *Program) CompareIfVariableGtConstant(v int32, fv bool, c int32, tgt int32, ft bool) error {
	return p.emit(opcode.CompareIfVariableGtConstant, varConstTarget(v, fv, c, tgt, ft))
}

func (p *Program) CompareIfVariableLtConstant(v int32, fv bool, c int32, tgt int32, ft bool) error {
	return p.emit(opcode.CompareIfVariableLtConstant, varConstTarget(v, fv, c, tgt, ft))
}

func (p *Program) CompareIfVariableEqConstant(v int32, fv bool, c int32, tgt int32, ft bool) error {
	return p.emit(opcode.CompareIfVariableEqConstant, varConstTarget(v, fv, c, tgt, ft))
}

func (p *Program) CompareIfVariableGtVariable(a int32, fa bool, b int32, fb bool, tgt int32, ft bool) error {
	return p.emit(opcode.CompareIfVariableGtVariable, threeVar(a, fa, b, fb, tgt, ft))
}

func (p *Program) CompareIfVariableLtVariable(a int32, fa bool, b int32, fb bool, tgt int32, ft bool) error {
	return p.emit(opcode.CompareIfVariableLtVariable, threeVar(a, fa, b, fb, tgt, ft))
}

func (p *Program) CompareIfVariableEqVariable(a int32, fa bool, b int32, fb bool, tgt int32, ft bool) error {
	return p.emit(opcode.CompareIfVariableEqVariable, threeVar(a, fa, b, fb, tgt, ft))
}

func (p *Program) GetMaxOfVariableAndConstant(v int32, fv bool, c int32, tgt int32, ft bool) error {
	return p.emit(opcode.GetMaxOfVariableAndConstant, varConstTarget(v, fv, c, tgt, ft))
}

func (p *Program) GetMinOfVariableAndConstant(v int32, fv bool, c int32, tgt int32, ft bool) error {
	return p.emit(opcode.GetMinOfVariableAndConstant, varConstTarget(v, fv, c, tgt, ft))
}

func (p *Program) GetMaxOfVariableAndVariable(a int32, fa bool, b int32, fb bool, tgt int32, ft bool) error {
	return p.emit(opcode.GetMaxOfVariableAndVariable, threeVar(a, fa, b, fb, tgt, ft))
}

func (p *Program) GetMinOfVariableAndVariable(a int32, fa bool, b int32, fb bool, tgt int32, ft bool) error {
	return p.emit(opcode.GetMinOfVariableAndVariable, threeVar(a, fa, b, fb, tgt, ft))
}
