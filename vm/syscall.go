package vm

import (
	"fmt"
	"time"
)

// PerformSystemCall implements the single defined system call family:
// major=0 injects a component of the local date/time into a variable.
// Any other (major, minor) pair fails with InvalidSystemCall.
func (s *VmSession) PerformSystemCall(major, minor int8, v int32, follow bool) error {
	if major != 0 {
		return fmt.Errorf("%w: unknown major %d", ErrInvalidSystemCall, major)
	}
	now := time.Now()
	_, offset := now.Zone()

	var value int32
	switch minor {
	case 0:
		value = int32(offset / 3600)
	case 1:
		value = int32((offset % 3600) / 60)
	case 2:
		value = int32(now.Second())
	case 3:
		value = int32(now.Minute())
	case 4:
		value = int32(now.Hour())
	case 5:
		value = int32(now.Day())
	case 6:
		value = int32(now.Month())
	case 7:
		value = int32(now.Year())
	case 8:
		value = int32(now.Weekday())
	default:
		return fmt.Errorf("%w: unknown minor %d for major 0", ErrInvalidSystemCall, minor)
	}
	return s.Write(v, follow, value)
}
