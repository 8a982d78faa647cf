package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// AvailableSlot represents a bookable start time for a staff member
type AvailableSlot struct {
	StartTime       types.TimeString
	StaffID         int64
	DurationMinutes int
}

// EndTime returns the slot end; invalid starts yield an empty value.
func (s *AvailableSlot) EndTime() types.TimeString {
	end, err := s.StartTime.AddMinutes(s.DurationMinutes)
	if err != nil {
		return ""
	}
	return end
}
