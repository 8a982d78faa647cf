package domain

import "time"

// Location is a tenant's physical point of service. Its operating hours
// bound every staff schedule and appointment at that location.
type Location struct {
	ID       int64
	TenantID int64

	Name    string
	Address string
	Phone   *string
	Email   *string

	Timezone       string
	OperatingHours WeeklySchedule

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenOn reports whether the location has operating hours on the weekday.
func (l *Location) OpenOn(day time.Weekday) bool {
	return l.OperatingHours.DayEnabled(day)
}
