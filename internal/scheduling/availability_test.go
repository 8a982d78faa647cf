package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func testService(duration, buffer int) *domain.Service {
	return &domain.Service{
		ID:              1,
		TenantID:        1,
		Name:            "Стрижка",
		DurationMinutes: duration,
		BufferMinutes:   buffer,
		IsActive:        true,
	}
}

func slotStarts(slots []domain.AvailableSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestResolveDaySlots_BasicDay(t *testing.T) {
	// Сотрудник 10:00-16:00, услуга 60 минут, шаг 30
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), testDate, 30)

	require.NotEmpty(t, slots)
	assert.Equal(t, "10:00", slots[0].StartTime.String())
	assert.Equal(t, "15:00", slots[len(slots)-1].StartTime.String(),
		"last slot must still fit the full duration before block end")

	for _, s := range slots {
		assert.Equal(t, int64(7), s.StaffID)
		assert.Equal(t, 60, s.DurationMinutes)
	}
}

func TestResolveDaySlots_BufferShrinksTail(t *testing.T) {
	noBuffer := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), testDate, 30)
	withBuffer := ResolveDaySlots(testLocation(), testStaff(), testService(60, 30), testDate, 30)

	require.NotEmpty(t, withBuffer)
	assert.Equal(t, "14:30", withBuffer[len(withBuffer)-1].StartTime.String(),
		"buffer must leave room after the service inside the block")
	assert.Less(t, len(withBuffer), len(noBuffer))
}

func TestResolveDaySlots_LocationClosed(t *testing.T) {
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), monday, 30)
	assert.Empty(t, slots)
}

func TestResolveDaySlots_StaffDayDisabled(t *testing.T) {
	thursday := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), thursday, 30)
	assert.Empty(t, slots)
}

func TestResolveDaySlots_StaffNotAtLocation(t *testing.T) {
	staff := testStaff()
	staff.SchedulesByLocation = nil

	slots := ResolveDaySlots(testLocation(), staff, testService(60, 0), testDate, 30)
	assert.Empty(t, slots)
}

func TestResolveDaySlots_ServiceTooLong(t *testing.T) {
	// Услуга длиннее любого блока - пустой список, не ошибка
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(480, 0), testDate, 30)
	assert.Empty(t, slots)
}

func TestResolveDaySlots_SplitShift(t *testing.T) {
	staff := testStaff()
	staff.SchedulesByLocation[testLocationID] = domain.WeeklySchedule{
		time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{
			tb("14:00", "16:00"),
			tb("10:00", "12:00"),
		}},
	}

	slots := ResolveDaySlots(testLocation(), staff, testService(60, 0), testDate, 60)

	assert.Equal(t, []string{"10:00", "11:00", "14:00", "15:00"}, slotStarts(slots),
		"slots must be sorted across unordered blocks and never span the gap")
}

func TestResolveDaySlots_StepFallsBackToDuration(t *testing.T) {
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(90, 0), testDate, 0)

	assert.Equal(t, []string{"10:00", "11:30", "13:00", "14:30"}, slotStarts(slots))
}

func TestResolveDaySlots_ClampsToLocationHours(t *testing.T) {
	// Рассинхронизированное расписание сотрудника шире часов локации:
	// слоты за пределами часов локации отбрасываются
	staff := testStaff()
	staff.SchedulesByLocation[testLocationID] = domain.WeeklySchedule{
		time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{tb("08:00", "11:00")}},
	}

	slots := ResolveDaySlots(testLocation(), staff, testService(60, 0), testDate, 60)

	assert.Equal(t, []string{"09:00", "10:00"}, slotStarts(slots))
}

func TestFilterConflictingSlots(t *testing.T) {
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), testDate, 60)
	require.Equal(t, []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00"}, slotStarts(slots))

	appointments := []*domain.Appointment{
		{
			ID:        100,
			StaffID:   7,
			StartTime: mustTS("12:00"),
			EndTime:   mustTS("13:00"),
			Status:    domain.StatusConfirmed,
		},
	}

	free := FilterConflictingSlots(slots, appointments)

	assert.Equal(t, []string{"10:00", "11:00", "13:00", "14:00", "15:00"}, slotStarts(free),
		"touching windows do not conflict, only the overlapped slot drops")
}

func TestFilterConflictingSlots_CancelledVacatesSlot(t *testing.T) {
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), testDate, 60)

	appointments := []*domain.Appointment{
		{
			ID:        100,
			StaffID:   7,
			StartTime: mustTS("12:00"),
			EndTime:   mustTS("13:00"),
			Status:    domain.StatusCancelled,
		},
	}

	free := FilterConflictingSlots(slots, appointments)
	assert.Len(t, free, len(slots), "cancelled appointment must vacate its slot")
}

func TestFilterConflictingSlots_OtherStaffIgnored(t *testing.T) {
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), testDate, 60)

	appointments := []*domain.Appointment{
		{
			ID:        100,
			StaffID:   99,
			StartTime: mustTS("12:00"),
			EndTime:   mustTS("13:00"),
			Status:    domain.StatusConfirmed,
		},
	}

	free := FilterConflictingSlots(slots, appointments)
	assert.Len(t, free, len(slots))
}

func TestFilterPastSlots(t *testing.T) {
	slots := ResolveDaySlots(testLocation(), testStaff(), testService(60, 0), testDate, 60)

	free := FilterPastSlots(slots, mustTS("12:30"))

	assert.Equal(t, []string{"13:00", "14:00", "15:00"}, slotStarts(free))
}
