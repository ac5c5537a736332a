// Package pipe implements the bounded-FIFO processing stage BEAST's
// pipeline moves byte-vector candidates through: a generic Pipe base
// plus the three concrete kinds spec.md names (EvolutionPipe,
// ProgramFactoryPipe, NullSinkPipe).
package pipe

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrUnderflow        = errors.New("underflow")
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// Item is one candidate moving through a pipe: a byte-vector (usually
// an assembled program) and its most recently computed fitness score.
type Item struct {
	ID    uuid.UUID
	Bytes []byte
	Score float64
}

func NewItem(b []byte) Item {
	return Item{ID: uuid.New(), Bytes: b}
}

// slot is one bounded FIFO of Items.
type slot struct {
	cap   int
	items []Item
}

func newSlot(capacity int) *slot { return &slot{cap: capacity} }

func (s *slot) hasSpace() bool { return len(s.items) < s.cap }
func (s *slot) isFull() bool   { return len(s.items) >= s.cap }
func (s *slot) has() bool      { return len(s.items) > 0 }

func (s *slot) push(it Item) error {
	if !s.hasSpace() {
		return fmt.Errorf("%w: slot at capacity %d", ErrCapacityExceeded, s.cap)
	}
	s.items = append(s.items, it)
	return nil
}

func (s *slot) pop() (Item, error) {
	if len(s.items) == 0 {
		return Item{}, fmt.Errorf("%w: slot empty", ErrUnderflow)
	}
	it := s.items[0]
	s.items = s.items[1:]
	return it, nil
}

// Executor is the concrete behavior a Pipe kind supplies to execute().
// Capability-interface replacement for the source's virtual base class.
type Executor interface {
	Execute(p *Base) error
}

// Pipe is the capability every concrete pipe kind exposes to a
// Pipeline; Base implements it generically and concrete kinds satisfy
// it by embedding Base and supplying an Executor.
type Pipe interface {
	Name() string
	InputHasSpace(i int) bool
	AddInput(i int, it Item) error
	DrawInput(i int) (Item, error)
	HasOutput(i int) bool
	DrawOutput(i int) (Item, error)
	InputsAreSaturated() bool
	OutputsAreSaturated() bool
	Execute() error
	NumInputSlots() int
	NumOutputSlots() int
}

// Base implements the bounded-FIFO bookkeeping common to every pipe
// kind; concrete kinds embed it and provide an Executor for execute().
type Base struct {
	name string
	mu   sync.Mutex
	in   []*slot
	out  []*slot
	exec Executor
}

// NewBase builds a pipe named name with nIn input slots and nOut
// output slots, each bounded to slotCapacity items, whose execute()
// delegates to exec.
func NewBase(name string, nIn, nOut, slotCapacity int, exec Executor) *Base {
	b := &Base{name: name, exec: exec}
	for i := 0; i < nIn; i++ {
		b.in = append(b.in, newSlot(slotCapacity))
	}
	for i := 0; i < nOut; i++ {
		b.out = append(b.out, newSlot(slotCapacity))
	}
	return b
}

func (b *Base) Name() string { return b.name }

func (b *Base) checkInput(i int) error {
	if i < 0 || i >= len(b.in) {
		return fmt.Errorf("%w: input slot %d out of range [0,%d)", ErrInvalidArgument, i, len(b.in))
	}
	return nil
}

func (b *Base) checkOutput(i int) error {
	if i < 0 || i >= len(b.out) {
		return fmt.Errorf("%w: output slot %d out of range [0,%d)", ErrInvalidArgument, i, len(b.out))
	}
	return nil
}

func (b *Base) InputHasSpace(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checkInput(i) != nil {
		return false
	}
	return b.in[i].hasSpace()
}

func (b *Base) AddInput(i int, it Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkInput(i); err != nil {
		return err
	}
	return b.in[i].push(it)
}

func (b *Base) DrawInput(i int) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkInput(i); err != nil {
		return Item{}, err
	}
	return b.in[i].pop()
}

func (b *Base) HasOutput(i int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checkOutput(i) != nil {
		return false
	}
	return b.out[i].has()
}

func (b *Base) DrawOutput(i int) (Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkOutput(i); err != nil {
		return Item{}, err
	}
	return b.out[i].pop()
}

// addOutput is used internally by concrete executors to publish a
// result; it silently drops the item if the output slot is full,
// mirroring inputs_are_saturated/outputs_are_saturated backpressure
// rather than failing execute() outright.
func (b *Base) addOutput(i int, it Item) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checkOutput(i) != nil || !b.out[i].hasSpace() {
		return false
	}
	_ = b.out[i].push(it)
	return true
}

// InputsAreSaturated reports whether every input slot is full. A pipe
// with no input slots (e.g. ProgramFactoryPipe) is vacuously saturated,
// so the worker loop's execute() gate depends only on its outputs.
func (b *Base) InputsAreSaturated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.in {
		if !s.isFull() {
			return false
		}
	}
	return true
}

func (b *Base) OutputsAreSaturated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.out {
		if s.isFull() {
			return true
		}
	}
	return false
}

func (b *Base) Execute() error {
	if b.exec == nil {
		return nil
	}
	return b.exec.Execute(b)
}

// NumInputSlots and NumOutputSlots let a Pipeline walk a pipe's slots
// without reaching into Base's private fields.
func (b *Base) NumInputSlots() int  { return len(b.in) }
func (b *Base) NumOutputSlots() int { return len(b.out) }

// drainInput is a convenience for executors that consume every queued
// input item on a given slot in FIFO order.
func (b *Base) drainInput(i int) []Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checkInput(i) != nil {
		return nil
	}
	items := b.in[i].items
	b.in[i].items = nil
	return items
}
