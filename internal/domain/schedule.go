package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeBlock is a half-open working interval within a single day.
// Invariant: Start < End, no overnight blocks.
type TimeBlock struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// IsValid reports whether the block parses and Start precedes End.
func (b TimeBlock) IsValid() bool {
	if b.Start.Validate() != nil || b.End.Validate() != nil {
		return false
	}
	return b.Start.IsBefore(b.End)
}

// DaySchedule is the schedule of a single weekday.
// When Enabled is false the blocks are ignored; when true they must be
// pairwise non-overlapping. Blocks are treated as a set of disjoint
// intervals, order is not significant.
type DaySchedule struct {
	Enabled bool        `json:"enabled"`
	Blocks  []TimeBlock `json:"blocks"`
}

// WeeklySchedule maps weekdays (time.Weekday, 0=Sunday..6=Saturday) to day
// schedules. It is used both for location operating hours and for a staff
// member's per-location schedule. Missing days read as disabled.
type WeeklySchedule map[time.Weekday]DaySchedule

// DayEnabled reports whether the given weekday has working hours.
func (s WeeklySchedule) DayEnabled(day time.Weekday) bool {
	ds, ok := s[day]
	return ok && ds.Enabled && len(ds.Blocks) > 0
}

// BlocksFor returns the blocks of the given weekday; nil when disabled.
func (s WeeklySchedule) BlocksFor(day time.Weekday) []TimeBlock {
	ds, ok := s[day]
	if !ok || !ds.Enabled {
		return nil
	}
	return ds.Blocks
}

// Normalized returns a copy with exactly 7 entries; days without hours
// become {Enabled:false} with no blocks.
func (s WeeklySchedule) Normalized() WeeklySchedule {
	out := make(WeeklySchedule, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		ds, ok := s[day]
		if !ok || !ds.Enabled {
			out[day] = DaySchedule{Enabled: false, Blocks: []TimeBlock{}}
			continue
		}
		blocks := make([]TimeBlock, len(ds.Blocks))
		copy(blocks, ds.Blocks)
		out[day] = DaySchedule{Enabled: true, Blocks: blocks}
	}
	return out
}

// Clone returns a deep copy. Schedule values are treated as immutable;
// every update path copies before writing.
func (s WeeklySchedule) Clone() WeeklySchedule {
	out := make(WeeklySchedule, len(s))
	for day, ds := range s {
		blocks := make([]TimeBlock, len(ds.Blocks))
		copy(blocks, ds.Blocks)
		out[day] = DaySchedule{Enabled: ds.Enabled, Blocks: blocks}
	}
	return out
}

// WorkingDays returns the enabled weekdays in Sunday..Saturday order,
// used to build actionable "staff works on ..." validation messages.
func (s WeeklySchedule) WorkingDays() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		if s.DayEnabled(day) {
			days = append(days, day)
		}
	}
	return days
}
