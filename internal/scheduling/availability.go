package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ResolveDaySlots answers "is this staff member bookable for this service at
// this location on this date, and at which start times".
//
// Candidate starts are generated per staff block at stepMinutes granularity
// (the service duration when stepMinutes <= 0) and must leave room for the
// service duration plus its buffer inside the block. Each slot is then also
// required to sit inside a location block for the same day: the schedule-edit
// path already enforces staff ⊆ location, but a stale write must not leak
// bookable slots outside opening hours.
//
// A service that fits no block yields an empty list, not an error. Past-time
// filtering against "now" is the caller's concern.
func ResolveDaySlots(
	location *domain.Location,
	staff *domain.StaffMember,
	service *domain.Service,
	date time.Time,
	stepMinutes int,
) []domain.AvailableSlot {
	day := date.Weekday()

	locationBlocks := location.OperatingHours.BlocksFor(day)
	if len(locationBlocks) == 0 {
		return nil // локация закрыта
	}

	schedule, ok := staff.ScheduleAt(location.ID)
	if !ok || !schedule.DayEnabled(day) {
		return nil // сотрудник не работает в этот день на этой локации
	}

	duration := service.DurationMinutes
	if duration < domain.MinServiceDurationMinutes {
		return nil
	}

	step := stepMinutes
	if step <= 0 {
		step = duration
	}

	slots := make([]domain.AvailableSlot, 0)
	for _, block := range schedule.BlocksFor(day) {
		bs, be := blockRange(block)
		if bs < 0 || be < 0 {
			continue
		}

		for start := bs; start+duration+service.BufferMinutes <= be; start += step {
			end := start + duration
			if !containedInAny(locationBlocks, start, end) {
				continue
			}

			startTS, err := types.NewTimeStringFromMinutes(start)
			if err != nil {
				continue
			}
			slots = append(slots, domain.AvailableSlot{
				StartTime:       startTS,
				StaffID:         staff.ID,
				DurationMinutes: duration,
			})
		}
	}

	// Блоки не обязаны храниться отсортированными
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}

// FilterConflictingSlots drops candidate slots that overlap an active
// appointment of the same staff member. Touching windows do not conflict.
// Cancelled appointments vacate their slot and are skipped.
func FilterConflictingSlots(slots []domain.AvailableSlot, appointments []*domain.Appointment) []domain.AvailableSlot {
	if len(appointments) == 0 {
		return slots
	}

	out := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		ss := slot.StartTime.Minutes()
		se := ss + slot.DurationMinutes

		conflict := false
		for _, appt := range appointments {
			if !appt.IsActive() || appt.StaffID != slot.StaffID {
				continue
			}
			as := appt.StartTime.Minutes()
			ae := appt.EndTime.Minutes()
			if RangesOverlap(ss, se, as, ae) {
				conflict = true
				break
			}
		}

		if !conflict {
			out = append(out, slot)
		}
	}
	return out
}

// FilterPastSlots drops slots starting before the minimum allowed time.
// Only meaningful when the requested date is today; callers pass the
// injected clock's minute-of-day.
func FilterPastSlots(slots []domain.AvailableSlot, minAllowed types.TimeString) []domain.AvailableSlot {
	out := make([]domain.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.StartTime.IsBefore(minAllowed) {
			out = append(out, slot)
		}
	}
	return out
}
