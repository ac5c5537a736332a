// Package program implements the BEAST byte buffer and assembler: a
// growable or fixed-capacity byte sequence with an append cursor, and
// one builder method per opcode that emits the documented payload.
package program

import (
	"encoding/binary"
	"errors"
	"fmt"

	"beast/opcode"
)

// Kind selects a declared variable's storage interpretation.
type Kind byte

const (
	Int32 Kind = 0
	Link  Kind = 1
)

func (k Kind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Link:
		return "link"
	default:
		return "?unknown?"
	}
}

// Sentinel errors, one per category from the error-handling design.
var (
	ErrCapacityExceeded = errors.New("program: capacity exceeded")
	ErrUnderflow        = errors.New("program: underflow")
	ErrInvalidArgument  = errors.New("program: invalid argument")
)

// maxStringLen is the largest string payload the wire format can carry:
// the length prefix is a signed 16-bit integer.
const maxStringLen = 32767

// Program is an append-only byte buffer holding assembled bytecode.
//
// A fixed-capacity Program is pre-sized: any append that would overflow
// its capacity fails and leaves the buffer's prior bytes untouched. A
// growing Program has no such ceiling; its backing slice is resized on
// demand.
type Program struct {
	buf    []byte
	cursor int
	fixed  bool
}

// NewFixed returns a Program whose capacity is permanently capacity
// bytes; appends that would exceed it fail with ErrCapacityExceeded.
func NewFixed(capacity int) *Program {
	return &Program{buf: make([]byte, capacity), fixed: true}
}

// NewGrowing returns a Program with no capacity ceiling.
func NewGrowing() *Program {
	return &Program{}
}

// FromBytes wraps raw, already-encoded instruction bytes as a
// read-only, fixed-capacity Program: no re-validation of opcode
// structure is performed (a session decoding it surfaces InvalidOpcode
// or Underflow on its own, exactly as it would for any other program).
// Used to hand GA-mutated byte-vectors to a VmSession for scoring.
func FromBytes(b []byte) *Program {
	buf := append([]byte(nil), b...)
	return &Program{buf: buf, cursor: len(buf), fixed: true}
}

// Bytes returns the written portion of the buffer. The returned slice
// must not be mutated by the caller.
func (p *Program) Bytes() []byte {
	return p.buf[:p.cursor]
}

// Len reports the number of bytes written so far.
func (p *Program) Len() int {
	return p.cursor
}

// Cap reports the fixed capacity, or the current backing size for a
// growing program (informational only; growing programs never fail on
// capacity).
func (p *Program) Cap() int {
	return len(p.buf)
}

// Pointer returns the current append cursor, usable as a jump target
// for a later absolute jump.
func (p *Program) Pointer() int32 {
	return int32(p.cursor)
}

// reserve grows the backing slice for a growing-mode append of n more
// bytes, or reports ErrCapacityExceeded for a fixed-mode program that
// cannot hold them. It never partially mutates the buffer.
func (p *Program) reserve(n int) error {
	if p.fixed {
		if p.cursor+n > len(p.buf) {
			return fmt.Errorf("%w: need %d more bytes, have %d of %d", ErrCapacityExceeded, n, p.cursor, len(p.buf))
		}
		return nil
	}
	if p.cursor+n > len(p.buf) {
		grown := make([]byte, p.cursor+n)
		copy(grown, p.buf[:p.cursor])
		p.buf = grown
	}
	return nil
}

// emit appends a single instruction: one opcode byte followed by
// payload, as one atomic operation. On failure the buffer is
// unchanged.
func (p *Program) emit(code opcode.Code, payload []byte) error {
	total := 1 + len(payload)
	if err := p.reserve(total); err != nil {
		return err
	}
	p.buf[p.cursor] = byte(code)
	copy(p.buf[p.cursor+1:], payload)
	p.cursor += total
	return nil
}

// InsertProgram appends other's full byte content verbatim at the
// current cursor.
func (p *Program) InsertProgram(other *Program) error {
	data := other.Bytes()
	if err := p.reserve(len(data)); err != nil {
		return err
	}
	copy(p.buf[p.cursor:], data)
	p.cursor += len(data)
	return nil
}

// Read1 reads a single byte at offset o.
func (p *Program) Read1(o int) (byte, error) {
	if o < 0 || o+1 > p.cursor {
		return 0, fmt.Errorf("%w: read1 at %d, size %d", ErrUnderflow, o, p.cursor)
	}
	return p.buf[o], nil
}

// Read2 reads a little-endian 16-bit signed integer at offset o.
func (p *Program) Read2(o int) (int16, error) {
	if o < 0 || o+2 > p.cursor {
		return 0, fmt.Errorf("%w: read2 at %d, size %d", ErrUnderflow, o, p.cursor)
	}
	return int16(binary.LittleEndian.Uint16(p.buf[o : o+2])), nil
}

// Read4 reads a little-endian 32-bit signed integer at offset o.
func (p *Program) Read4(o int) (int32, error) {
	if o < 0 || o+4 > p.cursor {
		return 0, fmt.Errorf("%w: read4 at %d, size %d", ErrUnderflow, o, p.cursor)
	}
	return int32(binary.LittleEndian.Uint32(p.buf[o : o+4])), nil
}

// --- little-endian payload encoding primitives ---

func put1(b byte) []byte {
	return []byte{b}
}

func putFlag(v bool) []byte {
	if v {
		return []byte{0x01}
	}
	return []byte{0x00}
}

func putI8(v int8) []byte {
	return []byte{byte(v)}
}

func putI16(v int16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func putI32(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func cat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// varFollow encodes (var:i32, follow:u8).
func varFollow(v int32, follow bool) []byte {
	return cat(putI32(v), putFlag(follow))
}

// varFollowConst encodes (var:i32, follow:u8, c:i32).
func varFollowConst(v int32, follow bool, c int32) []byte {
	return cat(putI32(v), putFlag(follow), putI32(c))
}

// varFollowPlaces encodes (var:i32, follow:u8, places:i8).
func varFollowPlaces(v int32, follow bool, places int8) []byte {
	return cat(putI32(v), putFlag(follow), putI8(places))
}

// twoVar encodes (a:i32, fa:u8, b:i32, fb:u8).
func twoVar(a int32, fa bool, b int32, fb bool) []byte {
	return cat(putI32(a), putFlag(fa), putI32(b), putFlag(fb))
}

// threeVar encodes (a:i32, fa:u8, b:i32, fb:u8, tgt:i32, ft:u8).
func threeVar(a int32, fa bool, b int32, fb bool, tgt int32, ft bool) []byte {
	return cat(putI32(a), putFlag(fa), putI32(b), putFlag(fb), putI32(tgt), putFlag(ft))
}

// varConstTarget encodes (var:i32, fv:u8, c:i32, tgt:i32, ft:u8).
func varConstTarget(v int32, fv bool, c int32, tgt int32, ft bool) []byte {
	return cat(putI32(v), putFlag(fv), putI32(c), putI32(tgt), putFlag(ft))
}

// encodeString encodes (len:i16, bytes[len]); fails if len exceeds the
// 16-bit signed length prefix's range.
func encodeString(s []byte) ([]byte, error) {
	if len(s) > maxStringLen {
		return nil, fmt.Errorf("%w: string of %d bytes exceeds max %d", ErrInvalidArgument, len(s), maxStringLen)
	}
	return cat(putI16(int16(len(s))), s), nil
}
