package vm

import "fmt"

// The stack convention is encoded directly in the variable array: the
// variable at index s holds the current depth d, and items occupy the
// declared variables at s+1..s+d. These operators never allocate a
// side stack; depth and items stay observable through ordinary
// variable reads.

func (s *VmSession) stackDepth(base int32) (int32, error) {
	sl, err := s.slot(base)
	if err != nil {
		return 0, err
	}
	return sl.value, nil
}

func (s *VmSession) setStackDepth(base, depth int32) error {
	sl, err := s.slot(base)
	if err != nil {
		return err
	}
	sl.value = depth
	return nil
}

func (s *VmSession) PushValueOnStack(stackVar int32, fs bool, value int32) error {
	base, err := s.Resolve(stackVar, fs)
	if err != nil {
		return err
	}
	depth, err := s.stackDepth(base)
	if err != nil {
		return err
	}
	itemIdx := base + depth + 1
	if itemIdx >= s.cfg.VariableCount {
		return fmt.Errorf("%w: stack push at depth %d overflows variable table", ErrCapacityExceeded, depth)
	}
	itemSlot, err := s.slot(itemIdx)
	if err != nil {
		return fmt.Errorf("%w: stack slot %d not declared", ErrCapacityExceeded, itemIdx)
	}
	itemSlot.value = value
	return s.setStackDepth(base, depth+1)
}

func (s *VmSession) PushVariableOnStack(stackVar int32, fs bool, v int32, fv bool) error {
	value, err := s.Read(v, fv)
	if err != nil {
		return err
	}
	return s.PushValueOnStack(stackVar, fs, value)
}

func (s *VmSession) PushConstantOnStack(stackVar int32, fs bool, c int32) error {
	return s.PushValueOnStack(stackVar, fs, c)
}

func (s *VmSession) popStack(stackVar int32, fs bool) (int32, error) {
	base, err := s.Resolve(stackVar, fs)
	if err != nil {
		return 0, err
	}
	depth, err := s.stackDepth(base)
	if err != nil {
		return 0, err
	}
	if depth == 0 {
		return 0, fmt.Errorf("%w: pop on empty stack at variable %d", ErrStackUnderflow, base)
	}
	itemIdx := base + depth
	itemSlot, err := s.slot(itemIdx)
	if err != nil {
		return 0, err
	}
	value := itemSlot.value
	if err := s.setStackDepth(base, depth-1); err != nil {
		return 0, err
	}
	return value, nil
}

func (s *VmSession) PopVariableFromStack(stackVar int32, fs bool, v int32, fv bool) error {
	value, err := s.popStack(stackVar, fs)
	if err != nil {
		return err
	}
	return s.Write(v, fv, value)
}

func (s *VmSession) PopFromStack(stackVar int32, fs bool) error {
	_, err := s.popStack(stackVar, fs)
	return err
}

func (s *VmSession) CheckIfStackIsEmpty(stackVar int32, fs bool, v int32, fv bool) error {
	base, err := s.Resolve(stackVar, fs)
	if err != nil {
		return err
	}
	depth, err := s.stackDepth(base)
	if err != nil {
		return err
	}
	result := int32(0)
	if depth == 0 {
		result = 1
	}
	return s.Write(v, fv, result)
}
