package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64            // ID записи
	TenantID      int64            // ID тенанта (из заголовка, для проверки доступа)
	Date          time.Time        // Новая дата
	StartTime     types.TimeString // Новое время начала
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID              int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
}
