package vm

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

// Severity orders log messages; a Logger discards anything below its
// configured minimum.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
	Panic
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "DBG"
	case Info:
		return "INF"
	case Warning:
		return "WRN"
	case Error:
		return "ERR"
	case Panic:
		return "PNC"
	default:
		return "???"
	}
}

func (s Severity) color() *color.Color {
	switch s {
	case Debug:
		return color.New(color.FgHiBlack)
	case Info:
		return color.New(color.FgHiWhite)
	case Warning:
		return color.New(color.FgYellow)
	case Error:
		return color.New(color.FgRed)
	case Panic:
		return color.New(color.FgRed, color.BgHiWhite)
	default:
		return color.New()
	}
}

// Logger is a per-VM, severity-filtered sink, replacing the source's
// globally mutable message severity with construction-time
// configuration (spec §9 redesign guidance).
type Logger struct {
	out      io.Writer
	minimum  Severity
	colorize *color.Color
}

// NewLogger returns a Logger writing to w, discarding anything below
// minimum.
func NewLogger(w io.Writer, minimum Severity) *Logger {
	return &Logger{out: w, minimum: minimum}
}

// DefaultLogger writes Info and above to stderr.
func DefaultLogger() *Logger {
	return NewLogger(os.Stderr, Info)
}

func (l *Logger) log(sev Severity, format string, args ...interface{}) {
	if l == nil || sev < l.minimum {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s %s] %s", time.Now().Format(time.RFC3339), sev, msg)
	sev.color().Fprintln(l.out, line)
}

func (l *Logger) Debugf(format string, args ...interface{})   { l.log(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})    { l.log(Info, format, args...) }
func (l *Logger) Warningf(format string, args ...interface{}) { l.log(Warning, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{})   { l.log(Error, format, args...) }
func (l *Logger) Panicf(format string, args ...interface{})   { l.log(Panic, format, args...) }

// DebugDump spews v's structure at Debug severity, for inspecting a
// session's variable table or statistics during development.
func (l *Logger) DebugDump(label string, v interface{}) {
	if l == nil || Debug < l.minimum {
		return
	}
	l.Debugf("%s:\n%s", label, spew.Sdump(v))
}
