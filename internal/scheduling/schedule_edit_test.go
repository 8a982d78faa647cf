package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func locationDay(blocks ...domain.TimeBlock) domain.DaySchedule {
	return domain.DaySchedule{Enabled: true, Blocks: blocks}
}

func TestValidateScheduleEdit_OK(t *testing.T) {
	blocks := []domain.TimeBlock{tb("10:00", "16:00")}

	edited, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "18:00")),
		blocks,
		0, FieldEnd, mustTS("17:00"),
	)

	require.NoError(t, err)
	assert.Equal(t, tb("10:00", "17:00"), edited)
	assert.Equal(t, tb("10:00", "16:00"), blocks[0], "input slice must stay untouched")
}

func TestValidateScheduleEdit_IndexOutOfRange(t *testing.T) {
	_, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "18:00")),
		[]domain.TimeBlock{tb("10:00", "16:00")},
		3, FieldEnd, mustTS("17:00"),
	)
	assert.ErrorIs(t, err, ErrBlockIndexOutOfRange)
}

func TestValidateScheduleEdit_MalformedValue(t *testing.T) {
	_, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "18:00")),
		[]domain.TimeBlock{tb("10:00", "16:00")},
		0, FieldEnd, domain.TimeBlock{}.End,
	)
	assert.Error(t, err)
}

func TestValidateScheduleEdit_OutsideLocationRange(t *testing.T) {
	_, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "18:00")),
		[]domain.TimeBlock{tb("10:00", "16:00")},
		0, FieldEnd, mustTS("19:00"),
	)

	var rangeErr *OutOfLocationRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, mustTS("09:00"), rangeErr.Min)
	assert.Equal(t, mustTS("18:00"), rangeErr.Max)
	assert.Contains(t, err.Error(), "time must be between 09:00 and 18:00")
}

func TestValidateScheduleEdit_UnionRangeIsPermissive(t *testing.T) {
	// Локация с перерывом: граница берётся по объединению блоков,
	// так что значение внутри перерыва проходит
	edited, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "13:00"), tb("14:00", "18:00")),
		[]domain.TimeBlock{tb("10:00", "12:00")},
		0, FieldEnd, mustTS("13:30"),
	)

	require.NoError(t, err)
	assert.Equal(t, tb("10:00", "13:30"), edited)
}

func TestValidateScheduleEdit_LocationClosed(t *testing.T) {
	_, err := ValidateScheduleEdit(
		time.Monday,
		domain.DaySchedule{Enabled: false},
		[]domain.TimeBlock{tb("10:00", "16:00")},
		0, FieldEnd, mustTS("17:00"),
	)

	var closedErr *LocationClosedError
	require.ErrorAs(t, err, &closedErr)
	assert.Equal(t, time.Monday, closedErr.Day)
}

func TestValidateScheduleEdit_InvertedRange(t *testing.T) {
	_, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "18:00")),
		[]domain.TimeBlock{tb("10:00", "16:00")},
		0, FieldStart, mustTS("16:30"),
	)

	var invErr *InvertedRangeError
	require.ErrorAs(t, err, &invErr)
}

func TestValidateScheduleEdit_SiblingOverlap(t *testing.T) {
	_, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "18:00")),
		[]domain.TimeBlock{tb("09:00", "12:00"), tb("13:00", "16:00")},
		0, FieldEnd, mustTS("14:00"),
	)

	var ovErr *OverlappingBlocksError
	require.ErrorAs(t, err, &ovErr)
}

func TestValidateScheduleEdit_TouchingSiblingAllowed(t *testing.T) {
	edited, err := ValidateScheduleEdit(
		time.Tuesday,
		locationDay(tb("09:00", "18:00")),
		[]domain.TimeBlock{tb("09:00", "12:00"), tb("13:00", "16:00")},
		0, FieldEnd, mustTS("13:00"),
	)

	require.NoError(t, err)
	assert.Equal(t, tb("09:00", "13:00"), edited)
}

func TestWithBlockUpdated_CopyOnWrite(t *testing.T) {
	schedule := domain.WeeklySchedule{
		time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{tb("10:00", "16:00")}},
	}
	hours := domain.WeeklySchedule{
		time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{tb("09:00", "18:00")}},
	}

	updated, err := WithBlockUpdated(schedule, hours, time.Tuesday, 0, FieldEnd, mustTS("17:00"))
	require.NoError(t, err)

	assert.Equal(t, tb("10:00", "17:00"), updated[time.Tuesday].Blocks[0])
	assert.Equal(t, tb("10:00", "16:00"), schedule[time.Tuesday].Blocks[0], "original schedule must not change")
}

func TestWithBlockUpdated_RevertOnError(t *testing.T) {
	schedule := domain.WeeklySchedule{
		time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{tb("10:00", "16:00")}},
	}
	hours := domain.WeeklySchedule{
		time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{tb("09:00", "18:00")}},
	}

	got, err := WithBlockUpdated(schedule, hours, time.Tuesday, 0, FieldEnd, mustTS("20:00"))

	require.Error(t, err)
	assert.Equal(t, schedule, got, "failed edit must hand back the prior schedule")
}

func TestValidateScheduleSubset(t *testing.T) {
	hours := domain.WeeklySchedule{
		time.Tuesday:  {Enabled: true, Blocks: []domain.TimeBlock{tb("09:00", "18:00")}},
		time.Thursday: {Enabled: true, Blocks: []domain.TimeBlock{tb("09:00", "13:00"), tb("14:00", "18:00")}},
	}

	t.Run("valid subset", func(t *testing.T) {
		schedule := domain.WeeklySchedule{
			time.Tuesday:  {Enabled: true, Blocks: []domain.TimeBlock{tb("10:00", "16:00")}},
			time.Thursday: {Enabled: true, Blocks: []domain.TimeBlock{tb("09:30", "17:00")}},
		}
		assert.NoError(t, ValidateScheduleSubset(hours, schedule))
	})

	t.Run("day disabled at location", func(t *testing.T) {
		schedule := domain.WeeklySchedule{
			time.Monday: {Enabled: true, Blocks: []domain.TimeBlock{tb("10:00", "16:00")}},
		}
		var closedErr *LocationClosedError
		require.ErrorAs(t, ValidateScheduleSubset(hours, schedule), &closedErr)
		assert.Equal(t, time.Monday, closedErr.Day)
	})

	t.Run("block escapes union range", func(t *testing.T) {
		schedule := domain.WeeklySchedule{
			time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{tb("08:00", "16:00")}},
		}
		var rangeErr *OutOfLocationRangeError
		require.ErrorAs(t, ValidateScheduleSubset(hours, schedule), &rangeErr)
	})

	t.Run("overlapping blocks", func(t *testing.T) {
		schedule := domain.WeeklySchedule{
			time.Tuesday: {Enabled: true, Blocks: []domain.TimeBlock{
				tb("09:00", "12:00"),
				tb("11:00", "14:00"),
			}},
		}
		var ovErr *OverlappingBlocksError
		require.ErrorAs(t, ValidateScheduleSubset(hours, schedule), &ovErr)
	})

	t.Run("disabled day skipped", func(t *testing.T) {
		schedule := domain.WeeklySchedule{
			time.Monday: {Enabled: false, Blocks: []domain.TimeBlock{tb("10:00", "16:00")}},
		}
		assert.NoError(t, ValidateScheduleSubset(hours, schedule))
	})
}

func TestValidateDaySchedule(t *testing.T) {
	assert.NoError(t, ValidateDaySchedule(domain.DaySchedule{Enabled: false}))
	assert.NoError(t, ValidateDaySchedule(locationDay(tb("09:00", "13:00"), tb("14:00", "18:00"))))

	var invErr *InvertedRangeError
	require.ErrorAs(t, ValidateDaySchedule(locationDay(tb("14:00", "13:00"))), &invErr)

	var ovErr *OverlappingBlocksError
	require.ErrorAs(t, ValidateDaySchedule(locationDay(tb("09:00", "13:00"), tb("12:00", "18:00"))), &ovErr)
}
