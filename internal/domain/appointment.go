package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a customer appointment at a tenant location
type Appointment struct {
	ID         int64
	TenantID   int64
	LocationID int64
	ServiceID  int64
	StaffID    int64

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	Date            time.Time // calendar day, no clock component
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Timezone        string

	Status AppointmentStatus
	Notes  *string

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment time can still change
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// TenantAppointmentsFilter фильтр для получения записей тенанта
type TenantAppointmentsFilter struct {
	TenantID        int64              // Обязательный параметр
	LocationID      *int64             // Фильтр по локации (опционально)
	StaffID         *int64             // Фильтр по сотруднику (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые записи
}
