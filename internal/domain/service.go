package domain

import "time"

// Service is a bookable offering of a tenant.
type Service struct {
	ID       int64
	TenantID int64

	Name        string
	Description *string

	DurationMinutes int
	BufferMinutes   int
	Price           float64

	// Capacity is a schema hook for future multi-resource booking;
	// the scheduling engine treats every slot as capacity 1.
	Capacity int

	// RecurrenceRule is a schema hook for future recurring appointments.
	RecurrenceRule *string

	IsActive bool

	// LocationIDs is the service_locations join: the locations offering
	// this service.
	LocationIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OfferedAt reports whether the service is offered at the location.
func (s *Service) OfferedAt(locationID int64) bool {
	for _, id := range s.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// ServiceLocation is a row of the service_locations join table.
type ServiceLocation struct {
	ServiceID  int64
	LocationID int64
}
