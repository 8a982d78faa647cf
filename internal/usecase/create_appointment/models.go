package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID   int64 // ID тенанта
	LocationID int64 // ID локации
	ServiceID  int64 // ID услуги
	StaffID    int64 // ID сотрудника

	CustomerName  string  // Имя клиента
	CustomerPhone string  // Телефон клиента
	CustomerEmail *string // Email клиента (опционально)

	Date      time.Time        // Дата записи (без времени)
	StartTime types.TimeString // Время начала (например, "10:00")
	Timezone  *string          // Таймзона клиента (опционально, по умолчанию таймзона локации)
	Notes     *string          // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID         int64
	TenantID   int64
	LocationID int64
	ServiceID  int64
	StaffID    int64

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Timezone        string
	Status          string

	// Денормализованные данные услуги
	ServiceName  string
	ServicePrice float64

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
