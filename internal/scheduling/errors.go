package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrValidation is the umbrella sentinel every typed validation error
// matches via errors.Is, so callers can map the whole family to a 400
// without enumerating the kinds.
var ErrValidation = errors.New("scheduling: validation failed")

var (
	// ErrBlockIndexOutOfRange возвращается при редактировании несуществующего блока
	ErrBlockIndexOutOfRange = errors.New("scheduling: block index out of range")

	// ErrUnknownBlockField возвращается при неизвестном поле блока
	ErrUnknownBlockField = errors.New("scheduling: unknown block field")
)

// PastDateError: the requested start is earlier than the injected "now".
type PastDateError struct {
	Start time.Time
}

func (e *PastDateError) Error() string {
	return fmt.Sprintf("appointment start %s is in the past", e.Start.Format("2006-01-02 15:04"))
}

func (e *PastDateError) Is(target error) bool { return target == ErrValidation }

// InvalidDurationError: the window length disagrees with the service duration.
type InvalidDurationError struct {
	WantMinutes int
	GotMinutes  int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("appointment window is %d minutes, service requires %d", e.GotMinutes, e.WantMinutes)
}

func (e *InvalidDurationError) Is(target error) bool { return target == ErrValidation }

// LocationClosedError: the location has no operating hours on the weekday.
type LocationClosedError struct {
	Day time.Weekday
}

func (e *LocationClosedError) Error() string {
	return fmt.Sprintf("location is closed on %s", e.Day)
}

func (e *LocationClosedError) Is(target error) bool { return target == ErrValidation }

// DayBlocks pairs a weekday with its working blocks, used to build
// actionable "works on ..." messages.
type DayBlocks struct {
	Day    time.Weekday
	Blocks []domain.TimeBlock
}

func (d DayBlocks) String() string {
	parts := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		parts[i] = fmt.Sprintf("%s-%s", b.Start, b.End)
	}
	return fmt.Sprintf("%s %s", d.Day, strings.Join(parts, ", "))
}

// StaffUnavailableError: the staff member is not scheduled on the weekday
// at this location. WorkingDays enumerates when they do work there.
type StaffUnavailableError struct {
	Day         time.Weekday
	WorkingDays []DayBlocks
}

func (e *StaffUnavailableError) Error() string {
	if len(e.WorkingDays) == 0 {
		return fmt.Sprintf("staff member does not work on %s at this location", e.Day)
	}
	days := make([]string, len(e.WorkingDays))
	for i, d := range e.WorkingDays {
		days[i] = d.String()
	}
	return fmt.Sprintf("staff member does not work on %s at this location; working hours: %s",
		e.Day, strings.Join(days, "; "))
}

func (e *StaffUnavailableError) Is(target error) bool { return target == ErrValidation }

// OutsideWorkingHoursError: the window escapes every staff block that day.
type OutsideWorkingHoursError struct {
	AvailableBlocks []domain.TimeBlock
}

func (e *OutsideWorkingHoursError) Error() string {
	if len(e.AvailableBlocks) == 0 {
		return "appointment time is outside staff working hours"
	}
	parts := make([]string, len(e.AvailableBlocks))
	for i, b := range e.AvailableBlocks {
		parts[i] = fmt.Sprintf("%s-%s", b.Start, b.End)
	}
	return fmt.Sprintf("appointment time is outside staff working hours (available: %s)", strings.Join(parts, ", "))
}

func (e *OutsideWorkingHoursError) Is(target error) bool { return target == ErrValidation }

// OutOfLocationRangeError: an edited block boundary escapes the union range
// of the location's blocks for that day.
type OutOfLocationRangeError struct {
	Day time.Weekday
	Min types.TimeString
	Max types.TimeString
}

func (e *OutOfLocationRangeError) Error() string {
	return fmt.Sprintf("time must be between %s and %s (location hours on %s)", e.Min, e.Max, e.Day)
}

func (e *OutOfLocationRangeError) Is(target error) bool { return target == ErrValidation }

// InvertedRangeError: an edit would make a block start at or after its end.
type InvertedRangeError struct {
	Start types.TimeString
	End   types.TimeString
}

func (e *InvertedRangeError) Error() string {
	return fmt.Sprintf("block start %s must be before end %s", e.Start, e.End)
}

func (e *InvertedRangeError) Is(target error) bool { return target == ErrValidation }

// OverlappingBlocksError: an edited block would overlap a sibling block of
// the same day.
type OverlappingBlocksError struct {
	Block domain.TimeBlock
	Other domain.TimeBlock
}

func (e *OverlappingBlocksError) Error() string {
	return fmt.Sprintf("block %s-%s overlaps existing block %s-%s",
		e.Block.Start, e.Block.End, e.Other.Start, e.Other.End)
}

func (e *OverlappingBlocksError) Is(target error) bool { return target == ErrValidation }
