// Package vm implements VmSession, the guest execution state, and
// CpuVirtualMachine, the decoder/dispatcher that steps a session
// through its program.
package vm

import (
	"fmt"

	"beast/opcode"
	"beast/program"
)

// Behavior controls how outside observers and the guest program
// interact with a variable's dirty flag.
type Behavior byte

const (
	Store Behavior = iota
	Input
	Output
)

func (b Behavior) String() string {
	switch b {
	case Store:
		return "store"
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "?unknown?"
	}
}

// State is the session's execution state machine (spec §4.2).
type State int

const (
	Running State = iota
	Terminated
	AtEnd
	Abnormal
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	case AtEnd:
		return "at_end"
	case Abnormal:
		return "abnormal"
	default:
		return "?unknown?"
	}
}

type variableSlot struct {
	kind     program.Kind
	behavior Behavior
	dirty    bool
	value    int32
}

// Config holds the session-scoped environmental limits (spec §6).
type Config struct {
	VariableCount     int32 `toml:"variable_count"`
	StringTableCount  int32 `toml:"string_table_count"`
	MaxStringSize     int32 `toml:"max_string_size"`
	MaxPrintBufferLen int32 `toml:"max_print_buffer_len"` // 0 means unlimited.
}

// VmSession is the mutable execution state bound to a Program.
type VmSession struct {
	cfg    Config
	prog   *program.Program
	cursor int32

	variables   map[int32]*variableSlot
	stringTable map[int32][]byte
	printBuffer []byte

	wasTerminated bool
	returnCode    int8
	state         State
	stats         RuntimeStatistics

	log *Logger
	rng randSource
}

// randSource is the minimal surface LoadRandomValueIntoVariable needs;
// satisfied by *rand.Rand, overridable in tests for determinism.
type randSource interface {
	Int31() int32
}

// NewSession creates a session bound to prog with the given
// environmental limits. If logger is nil, logging is discarded.
func NewSession(prog *program.Program, cfg Config, logger *Logger) *VmSession {
	s := &VmSession{
		cfg:         cfg,
		prog:        prog,
		variables:   make(map[int32]*variableSlot),
		stringTable: make(map[int32][]byte),
		log:         logger,
		rng:         newDefaultRand(),
	}
	return s
}

// SetRandSource overrides the RNG backing LoadRandomValueIntoVariable,
// for deterministic tests.
func (s *VmSession) SetRandSource(r randSource) { s.rng = r }

// Copy returns an independent snapshot of s's state, sharing the
// underlying Program (read-only during execution) but owning its own
// variables, string table, print buffer and statistics.
func (s *VmSession) Copy() *VmSession {
	cp := &VmSession{
		cfg:           s.cfg,
		prog:          s.prog,
		cursor:        s.cursor,
		variables:     make(map[int32]*variableSlot, len(s.variables)),
		stringTable:   make(map[int32][]byte, len(s.stringTable)),
		printBuffer:   append([]byte(nil), s.printBuffer...),
		wasTerminated: s.wasTerminated,
		returnCode:    s.returnCode,
		state:         s.state,
		stats:         copyStats(s.stats),
		log:           s.log,
		rng:           s.rng,
	}
	for k, v := range s.variables {
		cpy := *v
		cp.variables[k] = &cpy
	}
	for k, v := range s.stringTable {
		cp.stringTable[k] = append([]byte(nil), v...)
	}
	return cp
}

func copyStats(st RuntimeStatistics) RuntimeStatistics {
	out := newRuntimeStatistics()
	out.StepsExecuted = st.StepsExecuted
	out.ReturnCode = st.ReturnCode
	out.AbnormalExit = st.AbnormalExit
	for k, v := range st.OperatorExecutions {
		out.OperatorExecutions[k] = v
	}
	for _, idx := range st.ExecutedIndices.ToSlice() {
		out.ExecutedIndices.Add(idx)
	}
	return out
}

// Reset re-initializes all transient state so the bound program can be
// re-executed from the start: cursor to zero, statistics cleared,
// variables/string table/print buffer wiped back to their
// pre-execution emptiness (the program's own DeclareVariable
// instructions repopulate them identically on the next run).
func (s *VmSession) Reset() {
	s.cursor = 0
	s.variables = make(map[int32]*variableSlot)
	s.stringTable = make(map[int32][]byte)
	s.printBuffer = nil
	s.wasTerminated = false
	s.returnCode = 0
	s.state = Running
	s.stats = newRuntimeStatistics()
}

// Program returns the bound program.
func (s *VmSession) Program() *program.Program { return s.prog }

// Config returns the environmental limits this session was created with.
func (s *VmSession) Config() Config { return s.cfg }

// Logger returns the session's configured logger (possibly nil).
func (s *VmSession) Logger() *Logger { return s.log }

// Cursor returns the current instruction pointer.
func (s *VmSession) Cursor() int32 { return s.cursor }

// SetCursor overwrites the instruction pointer directly, without
// validating the target.
func (s *VmSession) SetCursor(c int32) { s.cursor = c }

// State returns the session's execution state.
func (s *VmSession) State() State { return s.state }

// WasTerminated reports whether an explicit terminate opcode ran.
func (s *VmSession) WasTerminated() bool { return s.wasTerminated }

// ReturnCode returns the code recorded by Terminate.
func (s *VmSession) ReturnCode() int8 { return s.returnCode }

// Statistics returns the accumulated runtime statistics.
func (s *VmSession) Statistics() RuntimeStatistics { return s.stats }

// MarkAbnormalExit records that a decode or operator failure ended the
// run abnormally.
func (s *VmSession) MarkAbnormalExit() {
	s.state = Abnormal
	s.stats.AbnormalExit = true
}

// InformAboutStep records statistics for one decoded instruction.
func (s *VmSession) InformAboutStep(op opcode.Code, atIndex int32) {
	s.stats.informAboutStep(op, atIndex)
}

// IsAtEnd reports whether the cursor has reached the program's size.
func (s *VmSession) IsAtEnd() bool {
	return s.cursor >= s.prog.Pointer()
}

// --- program fetch primitives ---

func (s *VmSession) Fetch1() (byte, error) {
	v, err := s.prog.Read1(int(s.cursor))
	if err != nil {
		return 0, fmt.Errorf("%w: fetch1 at cursor %d", ErrUnderflow, s.cursor)
	}
	s.cursor++
	return v, nil
}

func (s *VmSession) FetchFlag() (bool, error) {
	v, err := s.Fetch1()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (s *VmSession) FetchI8() (int8, error) {
	v, err := s.Fetch1()
	if err != nil {
		return 0, err
	}
	return int8(v), nil
}

func (s *VmSession) Fetch2() (int16, error) {
	v, err := s.prog.Read2(int(s.cursor))
	if err != nil {
		return 0, fmt.Errorf("%w: fetch2 at cursor %d", ErrUnderflow, s.cursor)
	}
	s.cursor += 2
	return v, nil
}

func (s *VmSession) Fetch4() (int32, error) {
	v, err := s.prog.Read4(int(s.cursor))
	if err != nil {
		return 0, fmt.Errorf("%w: fetch4 at cursor %d", ErrUnderflow, s.cursor)
	}
	s.cursor += 4
	return v, nil
}

// --- variable declaration ---

func (s *VmSession) checkIndex(v int32) error {
	if v < 0 || v >= s.cfg.VariableCount {
		return fmt.Errorf("%w: variable index %d out of range [0,%d)", ErrInvalidArgument, v, s.cfg.VariableCount)
	}
	return nil
}

func (s *VmSession) Declare(v int32, kind program.Kind) error {
	if err := s.checkIndex(v); err != nil {
		return err
	}
	if _, exists := s.variables[v]; exists {
		return fmt.Errorf("%w: variable %d already declared", ErrInvalidArgument, v)
	}
	if int32(len(s.variables)) >= s.cfg.VariableCount {
		return fmt.Errorf("%w: variable table full", ErrCapacityExceeded)
	}
	s.variables[v] = &variableSlot{kind: kind, behavior: Store}
	return nil
}

func (s *VmSession) Undeclare(v int32) error {
	if _, exists := s.variables[v]; !exists {
		return fmt.Errorf("%w: variable %d not declared", ErrInvalidArgument, v)
	}
	delete(s.variables, v)
	return nil
}

func (s *VmSession) slot(v int32) (*variableSlot, error) {
	sl, ok := s.variables[v]
	if !ok {
		return nil, fmt.Errorf("%w: variable %d not declared", ErrInvalidReference, v)
	}
	return sl, nil
}

func (s *VmSession) SetVariableBehavior(v int32, b Behavior) error {
	sl, err := s.slot(v)
	if err != nil {
		return err
	}
	sl.behavior = b
	return nil
}

func (s *VmSession) GetVariableBehavior(v int32, follow bool) (Behavior, error) {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return Store, err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return Store, err
	}
	return sl.behavior, nil
}

// Resolve follows v's Link chain (when follow is true and v names a
// Link variable) iteratively, tracking visited indices to detect
// cycles, up to a depth of variable_count. It returns the first
// non-Link index reached, or the variable itself when follow is false
// or v is not a Link.
func (s *VmSession) Resolve(v int32, follow bool) (int32, error) {
	sl, err := s.slot(v)
	if err != nil {
		return 0, err
	}
	if !follow || sl.kind != program.Link {
		return v, nil
	}

	visited := map[int32]bool{v: true}
	cur := v
	curSlot := sl
	for depth := int32(0); depth < s.cfg.VariableCount; depth++ {
		next := curSlot.value
		if visited[next] {
			return 0, fmt.Errorf("%w: link cycle starting at variable %d", ErrInvalidReference, v)
		}
		nextSlot, err := s.slot(next)
		if err != nil {
			return 0, fmt.Errorf("%w: link from %d targets undeclared variable %d", ErrInvalidReference, cur, next)
		}
		visited[next] = true
		cur = next
		curSlot = nextSlot
		if curSlot.kind != program.Link {
			return cur, nil
		}
	}
	return 0, fmt.Errorf("%w: link chain from variable %d exceeds depth limit", ErrInvalidReference, v)
}

// Read performs a guest-originated read: resolves v, clears the Input
// dirty flag (guest-read on Input clears it), and returns the value.
func (s *VmSession) Read(v int32, follow bool) (int32, error) {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return 0, err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return 0, err
	}
	if sl.behavior == Input {
		sl.dirty = false
	}
	return sl.value, nil
}

// Write performs a guest-originated write: resolves v (a Link write
// changes the link's target, never the link variable itself), sets
// the Output dirty flag when applicable, and stores value.
func (s *VmSession) Write(v int32, follow bool, value int32) error {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return err
	}
	sl.value = value
	if sl.behavior == Output {
		sl.dirty = true
	}
	return nil
}

// ReadExternal performs an outside-originated read (e.g. a host
// draining an Output variable), clearing its dirty flag.
func (s *VmSession) ReadExternal(v int32, follow bool) (int32, error) {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return 0, err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return 0, err
	}
	if sl.behavior == Output {
		sl.dirty = false
	}
	return sl.value, nil
}

// WriteExternal performs an outside-originated write (e.g. a host
// feeding an Input variable), setting its dirty flag.
func (s *VmSession) WriteExternal(v int32, follow bool, value int32) error {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return err
	}
	sl.value = value
	if sl.behavior == Input {
		sl.dirty = true
	}
	return nil
}

// HasOutputDataAvailable reports whether v (which must have Output
// behavior) has been written by the guest since it was last read from
// outside.
func (s *VmSession) HasOutputDataAvailable(v int32, follow bool) (bool, error) {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return false, err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return false, err
	}
	if sl.behavior != Output {
		return false, fmt.Errorf("%w: variable %d does not have Output behavior", ErrInvalidArgument, v)
	}
	return sl.dirty, nil
}

// CheckIfInputWasSet reports whether v has been written from outside
// since it was last read by the guest. On a Store-behavior variable
// this returns false rather than failing (open question resolution,
// mirroring the source).
func (s *VmSession) CheckIfInputWasSet(v int32, follow bool) (bool, error) {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return false, err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return false, err
	}
	if sl.behavior != Input {
		return false, nil
	}
	return sl.dirty, nil
}

// --- string table ---

func (s *VmSession) checkStringIndex(idx int32) error {
	if idx < 0 || idx >= s.cfg.StringTableCount {
		return fmt.Errorf("%w: string table index %d out of range [0,%d)", ErrInvalidArgument, idx, s.cfg.StringTableCount)
	}
	return nil
}

func (s *VmSession) SetStringTableEntry(idx int32, data []byte) error {
	if err := s.checkStringIndex(idx); err != nil {
		return err
	}
	if int32(len(data)) > s.cfg.MaxStringSize {
		return fmt.Errorf("%w: string of %d bytes exceeds max %d", ErrCapacityExceeded, len(data), s.cfg.MaxStringSize)
	}
	cp := append([]byte(nil), data...)
	s.stringTable[idx] = cp
	return nil
}

func (s *VmSession) GetStringTableEntry(idx int32) ([]byte, error) {
	if err := s.checkStringIndex(idx); err != nil {
		return nil, err
	}
	return s.stringTable[idx], nil
}

func (s *VmSession) SetVariableStringTableEntry(v int32, follow bool, data []byte) error {
	idx, err := s.Resolve(v, follow)
	if err != nil {
		return err
	}
	sl, err := s.slot(idx)
	if err != nil {
		return err
	}
	return s.SetStringTableEntry(sl.value, data)
}

// --- print buffer ---

func (s *VmSession) appendPrint(b []byte) error {
	if s.cfg.MaxPrintBufferLen > 0 && int32(len(s.printBuffer)+len(b)) > s.cfg.MaxPrintBufferLen {
		return fmt.Errorf("%w: print buffer would exceed max %d bytes", ErrCapacityExceeded, s.cfg.MaxPrintBufferLen)
	}
	s.printBuffer = append(s.printBuffer, b...)
	return nil
}

func (s *VmSession) AppendPrintString(data []byte) error {
	return s.appendPrint(data)
}

func (s *VmSession) AppendPrintVariableAsInt(v int32, follow bool) error {
	val, err := s.Read(v, follow)
	if err != nil {
		return err
	}
	return s.appendPrint([]byte(fmt.Sprintf("%d", val)))
}

func (s *VmSession) AppendPrintVariableAsChar(v int32, follow bool) error {
	val, err := s.Read(v, follow)
	if err != nil {
		return err
	}
	return s.appendPrint([]byte{byte(val)})
}

func (s *VmSession) PrintBuffer() []byte {
	return s.printBuffer
}

func (s *VmSession) ClearPrintBuffer() {
	s.printBuffer = nil
}

// --- termination ---

func (s *VmSession) Terminate(code int8) {
	s.wasTerminated = true
	s.returnCode = code
	s.state = Terminated
	s.stats.ReturnCode = code
}

func (s *VmSession) TerminateWithVariable(v int32, follow bool) error {
	val, err := s.Read(v, follow)
	if err != nil {
		return err
	}
	s.Terminate(int8(val))
	return nil
}
