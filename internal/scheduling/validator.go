package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ValidateAppointmentWindow decides whether a specific appointment window may
// be persisted. It is the single authority for both the booking flow and the
// calendar drag-move; checks run in order and the first failure wins.
//
// The caller computes end = start + serviceDuration; the duration check here
// is a defensive re-check, not the source of truth.
func ValidateAppointmentWindow(
	now time.Time,
	location *domain.Location,
	staff *domain.StaffMember,
	serviceDuration int,
	date time.Time,
	start types.TimeString,
	end types.TimeString,
) error {
	// 1. Запись в прошлом
	startAt := atMinutes(date, start.Minutes())
	if startAt.Before(now) {
		return &PastDateError{Start: startAt}
	}

	// 2. Длительность окна должна совпадать с длительностью услуги
	got := end.Minutes() - start.Minutes()
	if got <= 0 || got != serviceDuration {
		return &InvalidDurationError{WantMinutes: serviceDuration, GotMinutes: got}
	}

	day := date.Weekday()

	// 3. Локация работает в этот день
	if !location.OperatingHours.DayEnabled(day) {
		return &LocationClosedError{Day: day}
	}

	// 4. Сотрудник работает в этот день на этой локации
	schedule, ok := staff.ScheduleAt(location.ID)
	if !ok || !schedule.DayEnabled(day) {
		return &StaffUnavailableError{
			Day:         day,
			WorkingDays: workingDaysSummary(schedule),
		}
	}

	// 5. Окно целиком внутри одного из блоков сотрудника
	blocks := schedule.BlocksFor(day)
	if !containedInAny(blocks, start.Minutes(), end.Minutes()) {
		available := make([]domain.TimeBlock, len(blocks))
		copy(available, blocks)
		return &OutsideWorkingHoursError{AvailableBlocks: available}
	}

	return nil
}

// workingDaysSummary collects the enabled day/block combinations of a
// schedule for the StaffUnavailableError payload.
func workingDaysSummary(schedule domain.WeeklySchedule) []DayBlocks {
	if schedule == nil {
		return nil
	}
	summary := make([]DayBlocks, 0, 7)
	for _, day := range schedule.WorkingDays() {
		blocks := schedule.BlocksFor(day)
		copied := make([]domain.TimeBlock, len(blocks))
		copy(copied, blocks)
		summary = append(summary, DayBlocks{Day: day, Blocks: copied})
	}
	return summary
}

// atMinutes places a minute-of-day on a calendar date in the date's location.
func atMinutes(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(minutes) * time.Minute)
}
