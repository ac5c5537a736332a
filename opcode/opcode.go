// Package opcode defines the closed set of BEAST bytecode instructions.
//
// Every instruction is a single opcode byte followed by a fixed-length,
// documented payload (see the assembler in package program and the
// decoder in package vm). The numeric assignments below are the stable
// wire contract: they must never be renumbered.
package opcode

// Code identifies a single BEAST instruction.
type Code byte

const (
	NoOp                                        Code = 0x00
	DeclareVariable                             Code = 0x01
	SetVariable                                  Code = 0x02
	UndeclareVariable                            Code = 0x03
	AddConstantToVariable                        Code = 0x04
	AddVariableToVariable                        Code = 0x05
	SubtractConstantFromVariable                 Code = 0x06
	SubtractVariableFromVariable                 Code = 0x07
	RelativeJumpToVariableAddressIfVariableGt0   Code = 0x08
	RelativeJumpToVariableAddressIfVariableLt0   Code = 0x09
	RelativeJumpToVariableAddressIfVariableEq0   Code = 0x0a
	AbsoluteJumpToVariableAddressIfVariableGt0   Code = 0x0b
	AbsoluteJumpToVariableAddressIfVariableLt0   Code = 0x0c
	AbsoluteJumpToVariableAddressIfVariableEq0   Code = 0x0d
	RelativeJumpIfVariableGt0                    Code = 0x0e
	RelativeJumpIfVariableLt0                    Code = 0x0f
	RelativeJumpIfVariableEq0                    Code = 0x10
	AbsoluteJumpIfVariableGt0                    Code = 0x11
	AbsoluteJumpIfVariableLt0                    Code = 0x12
	AbsoluteJumpIfVariableEq0                    Code = 0x13
	LoadMemorySizeIntoVariable                   Code = 0x14
	CheckIfVariableIsInput                       Code = 0x15
	CheckIfVariableIsOutput                      Code = 0x16
	LoadInputCountIntoVariable                   Code = 0x17
	LoadOutputCountIntoVariable                  Code = 0x18
	LoadCurrentAddressIntoVariable                Code = 0x19
	PrintVariable                                Code = 0x1a
	SetStringTableEntry                          Code = 0x1b
	PrintStringFromStringTable                   Code = 0x1c
	LoadStringTableLimitIntoVariable              Code = 0x1d
	Terminate                                    Code = 0x1e
	CopyVariable                                 Code = 0x1f
	LoadStringItemLengthIntoVariable              Code = 0x20
	LoadStringItemIntoVariables                   Code = 0x21
	PerformSystemCall                            Code = 0x22
	BitShiftVariableLeft                         Code = 0x23
	BitShiftVariableRight                        Code = 0x24
	BitWiseInvertVariable                        Code = 0x25
	BitWiseAndTwoVariables                       Code = 0x26
	BitWiseOrTwoVariables                        Code = 0x27
	BitWiseXorTwoVariables                       Code = 0x28
	LoadRandomValueIntoVariable                   Code = 0x29
	ModuloVariableByConstant                     Code = 0x2a
	ModuloVariableByVariable                     Code = 0x2b
	RotateVariableLeft                           Code = 0x2c
	RotateVariableRight                          Code = 0x2d
	UnconditionalJumpToAbsoluteAddress           Code = 0x2e
	UnconditionalJumpToAbsoluteVariableAddress   Code = 0x2f
	UnconditionalJumpToRelativeAddress           Code = 0x30
	UnconditionalJumpToRelativeVariableAddress   Code = 0x31
	CheckIfInputWasSet                           Code = 0x32
	LoadStringTableItemLengthLimitIntoVariable    Code = 0x33
	PushVariableOnStack                          Code = 0x34
	PushConstantOnStack                          Code = 0x35
	PopVariableFromStack                         Code = 0x36
	PopFromStack                                 Code = 0x37
	CheckIfStackIsEmpty                          Code = 0x38
	SwapVariables                                 Code = 0x39
	SetVariableStringTableEntry                  Code = 0x3a
	PrintVariableStringFromStringTable            Code = 0x3b
	LoadVariableStringItemLengthIntoVariable      Code = 0x3c
	LoadVariableStringItemIntoVariables           Code = 0x3d
	TerminateWithVariableReturnCode               Code = 0x3e
	VariableBitShiftVariableLeft                  Code = 0x3f
	VariableBitShiftVariableRight                 Code = 0x40
	VariableRotateVariableLeft                    Code = 0x41
	VariableRotateVariableRight                   Code = 0x42
	CompareIfVariableGtConstant                   Code = 0x43
	CompareIfVariableLtConstant                   Code = 0x44
	CompareIfVariableEqConstant                   Code = 0x45
	CompareIfVariableGtVariable                   Code = 0x46
	CompareIfVariableLtVariable                   Code = 0x47
	CompareIfVariableEqVariable                   Code = 0x48
	GetMaxOfVariableAndConstant                   Code = 0x49
	GetMinOfVariableAndConstant                   Code = 0x4a
	GetMaxOfVariableAndVariable                   Code = 0x4b
	GetMinOfVariableAndVariable                   Code = 0x4c
)

var names = map[Code]string{
	NoOp:                                      "no_op",
	DeclareVariable:                           "declare_variable",
	SetVariable:                               "set_variable",
	UndeclareVariable:                         "undeclare_variable",
	AddConstantToVariable:                     "add_constant_to_variable",
	AddVariableToVariable:                     "add_variable_to_variable",
	SubtractConstantFromVariable:              "subtract_constant_from_variable",
	SubtractVariableFromVariable:              "subtract_variable_from_variable",
	RelativeJumpToVariableAddressIfVariableGt0: "rel_jump_to_var_addr_if_var_gt0",
	RelativeJumpToVariableAddressIfVariableLt0: "rel_jump_to_var_addr_if_var_lt0",
	RelativeJumpToVariableAddressIfVariableEq0: "rel_jump_to_var_addr_if_var_eq0",
	AbsoluteJumpToVariableAddressIfVariableGt0: "abs_jump_to_var_addr_if_var_gt0",
	AbsoluteJumpToVariableAddressIfVariableLt0: "abs_jump_to_var_addr_if_var_lt0",
	AbsoluteJumpToVariableAddressIfVariableEq0: "abs_jump_to_var_addr_if_var_eq0",
	RelativeJumpIfVariableGt0:                 "rel_jump_if_var_gt0",
	RelativeJumpIfVariableLt0:                 "rel_jump_if_var_lt0",
	RelativeJumpIfVariableEq0:                 "rel_jump_if_var_eq0",
	AbsoluteJumpIfVariableGt0:                 "abs_jump_if_var_gt0",
	AbsoluteJumpIfVariableLt0:                 "abs_jump_if_var_lt0",
	AbsoluteJumpIfVariableEq0:                 "abs_jump_if_var_eq0",
	LoadMemorySizeIntoVariable:                "load_memory_size_into_variable",
	CheckIfVariableIsInput:                    "check_if_variable_is_input",
	CheckIfVariableIsOutput:                   "check_if_variable_is_output",
	LoadInputCountIntoVariable:                "load_input_count_into_variable",
	LoadOutputCountIntoVariable:               "load_output_count_into_variable",
	LoadCurrentAddressIntoVariable:            "load_current_address_into_variable",
	PrintVariable:                             "print_variable",
	SetStringTableEntry:                       "set_string_table_entry",
	PrintStringFromStringTable:                "print_string_from_string_table",
	LoadStringTableLimitIntoVariable:          "load_string_table_limit_into_variable",
	Terminate:                                 "terminate",
	CopyVariable:                              "copy_variable",
	LoadStringItemLengthIntoVariable:          "load_string_item_length_into_variable",
	LoadStringItemIntoVariables:               "load_string_item_into_variables",
	PerformSystemCall:                         "perform_system_call",
	BitShiftVariableLeft:                      "bit_shift_variable_left",
	BitShiftVariableRight:                     "bit_shift_variable_right",
	BitWiseInvertVariable:                     "bit_wise_invert_variable",
	BitWiseAndTwoVariables:                    "bit_wise_and_two_variables",
	BitWiseOrTwoVariables:                     "bit_wise_or_two_variables",
	BitWiseXorTwoVariables:                    "bit_wise_xor_two_variables",
	LoadRandomValueIntoVariable:               "load_random_value_into_variable",
	ModuloVariableByConstant:                  "modulo_variable_by_constant",
	ModuloVariableByVariable:                  "modulo_variable_by_variable",
	RotateVariableLeft:                        "rotate_variable_left",
	RotateVariableRight:                       "rotate_variable_right",
	UnconditionalJumpToAbsoluteAddress:        "unconditional_jump_to_absolute_address",
	UnconditionalJumpToAbsoluteVariableAddress: "unconditional_jump_to_absolute_variable_address",
	UnconditionalJumpToRelativeAddress:        "unconditional_jump_to_relative_address",
	UnconditionalJumpToRelativeVariableAddress: "unconditional_jump_to_relative_variable_address",
	CheckIfInputWasSet:                        "check_if_input_was_set",
	LoadStringTableItemLengthLimitIntoVariable: "load_string_table_item_length_limit_into_variable",
	PushVariableOnStack:                       "push_variable_on_stack",
	PushConstantOnStack:                       "push_constant_on_stack",
	PopVariableFromStack:                      "pop_variable_from_stack",
	PopFromStack:                              "pop_from_stack",
	CheckIfStackIsEmpty:                       "check_if_stack_is_empty",
	SwapVariables:                             "swap_variables",
	SetVariableStringTableEntry:               "set_variable_string_table_entry",
	PrintVariableStringFromStringTable:        "print_variable_string_from_string_table",
	LoadVariableStringItemLengthIntoVariable:  "load_variable_string_item_length_into_variable",
	LoadVariableStringItemIntoVariables:       "load_variable_string_item_into_variables",
	TerminateWithVariableReturnCode:           "terminate_with_variable_return_code",
	VariableBitShiftVariableLeft:              "variable_bit_shift_variable_left",
	VariableBitShiftVariableRight:             "variable_bit_shift_variable_right",
	VariableRotateVariableLeft:                "variable_rotate_variable_left",
	VariableRotateVariableRight:               "variable_rotate_variable_right",
	CompareIfVariableGtConstant:               "compare_if_variable_gt_constant",
	CompareIfVariableLtConstant:               "compare_if_variable_lt_constant",
	CompareIfVariableEqConstant:               "compare_if_variable_eq_constant",
	CompareIfVariableGtVariable:               "compare_if_variable_gt_variable",
	CompareIfVariableLtVariable:               "compare_if_variable_lt_variable",
	CompareIfVariableEqVariable:               "compare_if_variable_eq_variable",
	GetMaxOfVariableAndConstant:               "get_max_of_variable_and_constant",
	GetMinOfVariableAndConstant:               "get_min_of_variable_and_constant",
	GetMaxOfVariableAndVariable:               "get_max_of_variable_and_variable",
	GetMinOfVariableAndVariable:               "get_min_of_variable_and_variable",
}

// String renders the opcode's canonical lower_snake_case mnemonic, or
// "?unknown?" for a byte value outside the defined set.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "?unknown?"
}

// Defined reports whether c is one of the closed set of instructions.
func (c Code) Defined() bool {
	_, ok := names[c]
	return ok
}
