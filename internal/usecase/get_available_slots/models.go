package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	LocationID int64     // ID локации
	ServiceID  int64     // ID услуги
	StaffID    int64     // ID сотрудника
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	LocationID      int64     // ID локации
	ServiceID       int64     // ID услуги
	StaffID         int64     // ID сотрудника
	DurationMinutes int       // Длительность услуги в минутах
	Slots           []Slot    // Список доступных слотов
}

// Slot модель доступного слота
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	StaffID   int64            // Сотрудник, у которого свободно это окно
}
