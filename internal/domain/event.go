package domain

import "time"

// AppointmentEventType names a lifecycle transition worth notifying about.
type AppointmentEventType string

const (
	EventAppointmentCreated     AppointmentEventType = "appointment.created"
	EventAppointmentRescheduled AppointmentEventType = "appointment.rescheduled"
	EventAppointmentCancelled   AppointmentEventType = "appointment.cancelled"
)

// AppointmentEvent is the domain event emitted after a successful
// create/reschedule/cancel. The core does not format or send customer
// messages; an external notifier consumes these.
type AppointmentEvent struct {
	ID            string               `json:"id"`
	Type          AppointmentEventType `json:"type"`
	TenantID      int64                `json:"tenantId"`
	AppointmentID int64                `json:"appointmentId"`
	OccurredAt    time.Time            `json:"occurredAt"`
}
