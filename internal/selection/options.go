// Package selection implements the cascading booking selector: pure filters
// over the tenant's catalog plus the client-side selection state machine.
// Every step narrows the next step's candidates; changing an earlier step
// resets everything downstream.
package selection

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Options is the full candidate set of a tenant, loaded once per selector
// render. Filtering happens in memory; the join data lives on the entities
// themselves (Service.LocationIDs, StaffMember.SchedulesByLocation and
// ServiceIDs).
type Options struct {
	Locations []*domain.Location
	Services  []*domain.Service
	Staff     []*domain.StaffMember
}

// ActiveLocations returns the selectable locations.
func (o *Options) ActiveLocations() []*domain.Location {
	out := make([]*domain.Location, 0, len(o.Locations))
	for _, l := range o.Locations {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out
}

// ServicesAt returns the active services offered at the location.
func (o *Options) ServicesAt(locationID int64) []*domain.Service {
	out := make([]*domain.Service, 0, len(o.Services))
	for _, s := range o.Services {
		if s.IsActive && s.OfferedAt(locationID) {
			out = append(out, s)
		}
	}
	return out
}

// StaffFor returns the active staff members who both work at the location
// and perform the service. Both joins must hold: a stylist at another
// branch or a colleague who does not offer the service never shows up.
func (o *Options) StaffFor(locationID, serviceID int64) []*domain.StaffMember {
	out := make([]*domain.StaffMember, 0, len(o.Staff))
	for _, m := range o.Staff {
		if !m.IsActive {
			continue
		}
		if _, worksHere := m.ScheduleAt(locationID); !worksHere {
			continue
		}
		if !m.Performs(serviceID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// LocationByID looks a location up in the loaded set.
func (o *Options) LocationByID(id int64) (*domain.Location, bool) {
	for _, l := range o.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// ServiceByID looks a service up in the loaded set.
func (o *Options) ServiceByID(id int64) (*domain.Service, bool) {
	for _, s := range o.Services {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// StaffByID looks a staff member up in the loaded set.
func (o *Options) StaffByID(id int64) (*domain.StaffMember, bool) {
	for _, m := range o.Staff {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}
