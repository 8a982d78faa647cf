package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Колонки services вместе с агрегированным массивом локаций из join-таблицы.
// ARRAY_AGG с FILTER отдает пустой массив вместо {NULL} для услуг без локаций.
var serviceColumns = []string{
	"s.id",
	"s.tenant_id",
	"s.name",
	"s.description",
	"s.duration_minutes",
	"s.buffer_minutes",
	"s.price",
	"s.capacity",
	"s.recurrence_rule",
	"s.is_active",
	"s.created_at",
	"s.updated_at",
	"COALESCE(ARRAY_AGG(sl.location_id) FILTER (WHERE sl.location_id IS NOT NULL), '{}') AS location_ids",
}

// Repository репозиторий для работы с услугами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает услугу и строки в service_locations
func (r *Repository) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns(
			"tenant_id",
			"name",
			"description",
			"duration_minutes",
			"buffer_minutes",
			"price",
			"capacity",
			"recurrence_rule",
			"is_active",
		).
		Values(
			svc.TenantID,
			svc.Name,
			svc.Description,
			svc.DurationMinutes,
			svc.BufferMinutes,
			svc.Price,
			svc.Capacity,
			svc.RecurrenceRule,
			svc.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	for _, locationID := range svc.LocationIDs {
		if err := r.linkLocation(ctx, svc.ID, locationID); err != nil {
			return nil, err
		}
	}

	return svc, nil
}

// GetByID получает услугу по ID вместе со списком локаций
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectServices().
		Where(squirrel.Eq{"s.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	svc, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	return svc, nil
}

// GetByTenant получает все активные услуги тенанта
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectServices().
		Where(squirrel.Eq{"s.tenant_id": tenantID}).
		Where(squirrel.Eq{"s.is_active": true}).
		OrderBy("s.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByTenant - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

func (r *Repository) linkLocation(ctx context.Context, serviceID, locationID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_locations").
		Columns("service_id", "location_id").
		Values(serviceID, locationID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: linkLocation - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: linkLocation - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func selectServices() squirrel.SelectBuilder {
	return psqlbuilder.Select(serviceColumns...).
		From("services s").
		LeftJoin("service_locations sl ON sl.service_id = s.id").
		GroupBy("s.id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var svc domain.Service
	var createdAt, updatedAt sql.NullTime
	var locationIDs pq.Int64Array

	err := row.Scan(
		&svc.ID,
		&svc.TenantID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMinutes,
		&svc.BufferMinutes,
		&svc.Price,
		&svc.Capacity,
		&svc.RecurrenceRule,
		&svc.IsActive,
		&createdAt,
		&updatedAt,
		&locationIDs,
	)
	if err != nil {
		return nil, err
	}

	svc.LocationIDs = []int64(locationIDs)
	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	return &svc, nil
}
