package pipe

// NullSinkPipe has one input slot and no outputs; on execute it drains
// the input slot and discards every item.
type NullSinkPipe struct {
	*Base
}

func NewNullSinkPipe(name string, slotCapacity int) *NullSinkPipe {
	sp := &NullSinkPipe{}
	sp.Base = NewBase(name, 1, 0, slotCapacity, sp)
	return sp
}

func (sp *NullSinkPipe) Execute(b *Base) error {
	b.drainInput(0)
	return nil
}
