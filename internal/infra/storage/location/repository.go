package location

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

var locationColumns = []string{
	"id",
	"tenant_id",
	"name",
	"address",
	"phone",
	"email",
	"timezone",
	"operating_hours",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с локациями.
// Часы работы хранятся в JSONB: расписание читается всегда целиком,
// а правится редко, поэтому разбивать его на строки нет смысла.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория локаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую локацию
func (r *Repository) Create(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	hours, err := json.Marshal(loc.OperatingHours.Normalized())
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrMarshalSchedule, err)
	}

	query, args, err := psqlbuilder.Insert("locations").
		Columns(
			"tenant_id",
			"name",
			"address",
			"phone",
			"email",
			"timezone",
			"operating_hours",
			"is_active",
		).
		Values(
			loc.TenantID,
			loc.Name,
			loc.Address,
			loc.Phone,
			loc.Email,
			loc.Timezone,
			hours,
			loc.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&loc.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	loc.CreatedAt = createdAt.Time
	loc.UpdatedAt = updatedAt.Time

	return loc, nil
}

// GetByID получает локацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(locationColumns...).
		From("locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	loc, err := scanLocation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan location: %v", ErrScanRow, err)
	}

	return loc, nil
}

// GetByTenant получает все активные локации тенанта
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) ([]*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(locationColumns...).
		From("locations").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByTenant - scan row: %v", ErrScanRow, err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - rows error: %v", ErrScanRow, err)
	}

	return locations, nil
}

// UpdateOperatingHours заменяет часы работы локации целиком
func (r *Repository) UpdateOperatingHours(ctx context.Context, id int64, hours domain.WeeklySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(hours.Normalized())
	if err != nil {
		return fmt.Errorf("%w: UpdateOperatingHours: %v", ErrMarshalSchedule, err)
	}

	query, args, err := psqlbuilder.Update("locations").
		Set("operating_hours", payload).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateOperatingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateOperatingHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateOperatingHours - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLocation(row rowScanner) (*domain.Location, error) {
	var loc domain.Location
	var hours []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&loc.ID,
		&loc.TenantID,
		&loc.Name,
		&loc.Address,
		&loc.Phone,
		&loc.Email,
		&loc.Timezone,
		&hours,
		&loc.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &loc.OperatingHours); err != nil {
			return nil, fmt.Errorf("unmarshal operating_hours: %v", err)
		}
	}

	loc.CreatedAt = createdAt.Time
	loc.UpdatedAt = updatedAt.Time

	return &loc, nil
}
