package catalog

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// LocationRepository интерфейс репозитория локаций
type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	GetByTenant(ctx context.Context, tenantID int64) ([]*domain.Location, error)
	UpdateOperatingHours(ctx context.Context, id int64, hours domain.WeeklySchedule) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetByTenant(ctx context.Context, tenantID int64) ([]*domain.Service, error)
}

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetByTenant(ctx context.Context, tenantID int64) ([]*domain.StaffMember, error)
	GetSchedule(ctx context.Context, staffID, locationID int64) (domain.WeeklySchedule, error)
}

// SlotCache интерфейс инвалидации кэша слотов
type SlotCache interface {
	InvalidateLocation(ctx context.Context, locationID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
