package update_staff_schedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BlockEditRequest модель запроса на правку одной границы блока
type BlockEditRequest struct {
	TenantID   int64 // ID тенанта (из заголовка, для проверки доступа)
	StaffID    int64 // ID сотрудника
	LocationID int64 // ID локации

	Day        time.Weekday          // День недели (0=воскресенье)
	BlockIndex int                   // Индекс редактируемого блока
	Field      scheduling.BlockField // Какая граница меняется: start или end
	Value      types.TimeString      // Новое значение границы
}

// ReplaceRequest модель запроса на замену расписания целиком
type ReplaceRequest struct {
	TenantID   int64 // ID тенанта (из заголовка, для проверки доступа)
	StaffID    int64 // ID сотрудника
	LocationID int64 // ID локации

	Schedule domain.WeeklySchedule // Новое недельное расписание
}

// Response модель ответа с актуальным расписанием
type Response struct {
	StaffID    int64
	LocationID int64
	Schedule   domain.WeeklySchedule
}
