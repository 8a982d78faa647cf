package update_staff_schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetSchedule(ctx context.Context, staffID, locationID int64) (domain.WeeklySchedule, error)
	UpsertSchedule(ctx context.Context, staffID, locationID int64, schedule domain.WeeklySchedule) error
}

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
}

// SlotCache интерфейс инвалидации кэша слотов
type SlotCache interface {
	InvalidateStaff(ctx context.Context, staffID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
