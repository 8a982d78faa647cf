package selection

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// State is the progress of the cascading selector.
type State string

const (
	StateNoLocation     State = "no_location"
	StateLocationChosen State = "location_chosen"
	StateServiceChosen  State = "service_chosen"
	StateStaffChosen    State = "staff_chosen"
	StateSlotChosen     State = "slot_chosen"
)

var (
	// ErrStepOutOfOrder возвращается при выборе шага без выполненных предыдущих
	ErrStepOutOfOrder = errors.New("selection: previous step not completed")

	// ErrInvalidChoice возвращается при выборе значения вне допустимого набора
	ErrInvalidChoice = errors.New("selection: choice not in candidate set")
)

// Selection is one client's pick-in-progress. The zero value means nothing
// is selected. Methods validate against the candidate set and reset every
// downstream step whenever an upstream step changes, so a stale
// service/staff/slot can never survive a location switch.
type Selection struct {
	LocationID *int64
	ServiceID  *int64
	StaffID    *int64

	SlotDate  *string // YYYY-MM-DD
	SlotStart *types.TimeString
}

// State reports how far the selection has progressed.
func (s *Selection) State() State {
	switch {
	case s.LocationID == nil:
		return StateNoLocation
	case s.ServiceID == nil:
		return StateLocationChosen
	case s.StaffID == nil:
		return StateServiceChosen
	case s.SlotStart == nil:
		return StateStaffChosen
	default:
		return StateSlotChosen
	}
}

// SelectLocation picks a location and drops any downstream choices.
// Re-picking the current location is a no-op.
func (s *Selection) SelectLocation(opts *Options, locationID int64) error {
	if s.LocationID != nil && *s.LocationID == locationID {
		return nil
	}

	loc, ok := opts.LocationByID(locationID)
	if !ok || !loc.IsActive {
		return fmt.Errorf("%w: location %d", ErrInvalidChoice, locationID)
	}

	s.LocationID = &locationID
	s.ServiceID = nil
	s.StaffID = nil
	s.clearSlot()
	return nil
}

// SelectService picks a service offered at the chosen location and drops
// the staff and slot choices.
func (s *Selection) SelectService(opts *Options, serviceID int64) error {
	if s.LocationID == nil {
		return fmt.Errorf("%w: no location selected", ErrStepOutOfOrder)
	}
	if s.ServiceID != nil && *s.ServiceID == serviceID {
		return nil
	}

	if !containsService(opts.ServicesAt(*s.LocationID), serviceID) {
		return fmt.Errorf("%w: service %d at location %d", ErrInvalidChoice, serviceID, *s.LocationID)
	}

	s.ServiceID = &serviceID
	s.StaffID = nil
	s.clearSlot()
	return nil
}

// SelectStaff picks a staff member who works at the chosen location and
// performs the chosen service, dropping any slot choice.
func (s *Selection) SelectStaff(opts *Options, staffID int64) error {
	if s.LocationID == nil || s.ServiceID == nil {
		return fmt.Errorf("%w: location and service must be selected first", ErrStepOutOfOrder)
	}
	if s.StaffID != nil && *s.StaffID == staffID {
		return nil
	}

	if !containsStaff(opts.StaffFor(*s.LocationID, *s.ServiceID), staffID) {
		return fmt.Errorf("%w: staff %d for service %d at location %d",
			ErrInvalidChoice, staffID, *s.ServiceID, *s.LocationID)
	}

	s.StaffID = &staffID
	s.clearSlot()
	return nil
}

// SelectSlot records the chosen date and start time. The slot itself is
// validated against availability by the booking usecase at submit time;
// here only the step order is enforced.
func (s *Selection) SelectSlot(date string, start types.TimeString) error {
	if s.StaffID == nil {
		return fmt.Errorf("%w: staff must be selected first", ErrStepOutOfOrder)
	}
	if err := start.Validate(); err != nil {
		return err
	}

	s.SlotDate = &date
	s.SlotStart = &start
	return nil
}

func (s *Selection) clearSlot() {
	s.SlotDate = nil
	s.SlotStart = nil
}

func containsService(services []*domain.Service, id int64) bool {
	for _, svc := range services {
		if svc.ID == id {
			return true
		}
	}
	return false
}

func containsStaff(staff []*domain.StaffMember, id int64) bool {
	for _, m := range staff {
		if m.ID == id {
			return true
		}
	}
	return false
}
