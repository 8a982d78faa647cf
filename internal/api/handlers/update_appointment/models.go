package update_appointment

import (
	"time"

	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UpdateAppointmentRequest HTTP request model.
// Оба поля опциональны, но хотя бы одно должно присутствовать.
type UpdateAppointmentRequest struct {
	Status    *string `json:"status,omitempty"`
	StartTime *string `json:"startTime,omitempty"` // ISO 8601
}

// ToRescheduleRequest конвертирует запрос в модель use case переноса
func (r *UpdateAppointmentRequest) ToRescheduleRequest(appointmentID, tenantID int64) (*rescheduleAppointment.Request, error) {
	startAt, err := time.Parse(time.RFC3339, *r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		TenantID:      tenantID,
		Date:          time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:     types.NewTimeString(startAt),
	}, nil
}
