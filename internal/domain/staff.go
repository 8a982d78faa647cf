package domain

import "time"

// StaffMember is a bookable employee of a tenant.
//
// SchedulesByLocation is keyed by location ID; a staff member may work at
// several locations with independent weekly schedules. Invariant: each
// schedule is a subset of that location's operating hours, enforced on the
// schedule-edit path rather than trusted at booking time.
type StaffMember struct {
	ID       int64
	TenantID int64

	Name  string
	Phone *string
	Email *string

	SchedulesByLocation map[int64]WeeklySchedule

	// ServiceIDs is the staff_services join: the services this staff
	// member performs.
	ServiceIDs []int64

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleAt returns the weekly schedule for the location and whether the
// staff member works there at all.
func (m *StaffMember) ScheduleAt(locationID int64) (WeeklySchedule, bool) {
	s, ok := m.SchedulesByLocation[locationID]
	return s, ok
}

// Performs reports whether the staff member performs the service.
func (m *StaffMember) Performs(serviceID int64) bool {
	for _, id := range m.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// StaffService is a row of the staff_services join table.
type StaffService struct {
	StaffID   int64
	ServiceID int64
}
