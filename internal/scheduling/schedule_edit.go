package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BlockField names an editable boundary of a schedule block.
type BlockField string

const (
	FieldStart BlockField = "start"
	FieldEnd   BlockField = "end"
)

// ValidateScheduleEdit validates a single-boundary edit of a staff schedule
// block against the location's day schedule and the sibling blocks.
// On success it returns the edited block; the input slice is never mutated,
// so a failed edit leaves the caller's state exactly as it was.
func ValidateScheduleEdit(
	day time.Weekday,
	locationDay domain.DaySchedule,
	blocks []domain.TimeBlock,
	editedIndex int,
	field BlockField,
	value types.TimeString,
) (domain.TimeBlock, error) {
	if editedIndex < 0 || editedIndex >= len(blocks) {
		return domain.TimeBlock{}, fmt.Errorf("%w: index %d of %d blocks", ErrBlockIndexOutOfRange, editedIndex, len(blocks))
	}

	// 1. Парсим новое значение
	if err := value.Validate(); err != nil {
		return domain.TimeBlock{}, err
	}

	// 2. Значение должно попадать в общий диапазон работы локации.
	// Диапазон берётся как объединение блоков (см. UnionRange) - перерывы
	// внутри дня границу не сужают.
	if !locationDay.Enabled || len(locationDay.Blocks) == 0 {
		return domain.TimeBlock{}, &LocationClosedError{Day: day}
	}
	min, max, _ := UnionRange(locationDay.Blocks)
	v := value.Minutes()
	if v < min || v > max {
		minTS, _ := types.NewTimeStringFromMinutes(min)
		maxTS, err := types.NewTimeStringFromMinutes(max)
		if err != nil {
			// Конец диапазона 24:00 не представим как время суток
			maxTS = types.TimeString("23:59")
		}
		return domain.TimeBlock{}, &OutOfLocationRangeError{Day: day, Min: minTS, Max: maxTS}
	}

	// 3. Применяем правку и проверяем, что блок не вывернут
	edited := blocks[editedIndex]
	switch field {
	case FieldStart:
		edited.Start = value
	case FieldEnd:
		edited.End = value
	default:
		return domain.TimeBlock{}, fmt.Errorf("%w: %q", ErrUnknownBlockField, field)
	}

	if !edited.Start.IsBefore(edited.End) {
		return domain.TimeBlock{}, &InvertedRangeError{Start: edited.Start, End: edited.End}
	}

	// 4. Блок не должен пересекаться с другими блоками этого дня
	es, ee := blockRange(edited)
	for i, other := range blocks {
		if i == editedIndex {
			continue
		}
		os, oe := blockRange(other)
		if RangesOverlap(es, ee, os, oe) {
			return domain.TimeBlock{}, &OverlappingBlocksError{Block: edited, Other: other}
		}
	}

	return edited, nil
}

// WithBlockUpdated returns a copy of schedule with one block boundary
// changed, validated against the location's operating hours. On any
// validation failure the original schedule is returned unchanged alongside
// the error, so callers keep the prior value without extra bookkeeping.
func WithBlockUpdated(
	schedule domain.WeeklySchedule,
	locationHours domain.WeeklySchedule,
	day time.Weekday,
	index int,
	field BlockField,
	value types.TimeString,
) (domain.WeeklySchedule, error) {
	locationDay, ok := locationHours[day]
	if !ok {
		locationDay = domain.DaySchedule{}
	}

	blocks := schedule.BlocksFor(day)
	edited, err := ValidateScheduleEdit(day, locationDay, blocks, index, field, value)
	if err != nil {
		return schedule, err
	}

	updated := schedule.Clone()
	ds := updated[day]
	ds.Blocks[index] = edited
	updated[day] = ds
	return updated, nil
}

// ValidateScheduleSubset checks the staff-schedule invariant: every enabled
// day must be enabled at the location, and every block must fall within the
// union range of the location's blocks for that day. Used when a whole
// per-location schedule is replaced.
func ValidateScheduleSubset(locationHours, schedule domain.WeeklySchedule) error {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if !schedule.DayEnabled(day) {
			continue
		}

		if !locationHours.DayEnabled(day) {
			return &LocationClosedError{Day: day}
		}

		min, max, _ := UnionRange(locationHours.BlocksFor(day))

		blocks := schedule.BlocksFor(day)
		for i, b := range blocks {
			if !b.Start.IsBefore(b.End) {
				return &InvertedRangeError{Start: b.Start, End: b.End}
			}

			bs, be := blockRange(b)
			if bs < min || be > max {
				minTS, _ := types.NewTimeStringFromMinutes(min)
				maxTS, err := types.NewTimeStringFromMinutes(max)
				if err != nil {
					maxTS = types.TimeString("23:59")
				}
				return &OutOfLocationRangeError{Day: day, Min: minTS, Max: maxTS}
			}

			for _, other := range blocks[i+1:] {
				os, oe := blockRange(other)
				if RangesOverlap(bs, be, os, oe) {
					return &OverlappingBlocksError{Block: b, Other: other}
				}
			}
		}
	}

	return nil
}

// ValidateDaySchedule checks the standalone shape of a day schedule:
// valid, non-inverted, pairwise disjoint blocks. Used for location
// operating-hours updates, where there is no parent range to respect.
func ValidateDaySchedule(ds domain.DaySchedule) error {
	if !ds.Enabled {
		return nil
	}
	for i, b := range ds.Blocks {
		if err := b.Start.Validate(); err != nil {
			return err
		}
		if err := b.End.Validate(); err != nil {
			return err
		}
		if !b.Start.IsBefore(b.End) {
			return &InvertedRangeError{Start: b.Start, End: b.End}
		}
		bs, be := blockRange(b)
		for _, other := range ds.Blocks[i+1:] {
			os, oe := blockRange(other)
			if RangesOverlap(bs, be, os, oe) {
				return &OverlappingBlocksError{Block: b, Other: other}
			}
		}
	}
	return nil
}
