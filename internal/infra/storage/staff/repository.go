package staff

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

var staffColumns = []string{
	"id",
	"tenant_id",
	"name",
	"phone",
	"email",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с сотрудниками.
// Сотрудник собирается из трёх таблиц: staff, staff_schedules
// (расписание на локацию, JSONB) и staff_services (выполняемые услуги).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сотрудников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сотрудника вместе с расписаниями и связями с услугами
func (r *Repository) Create(ctx context.Context, m *domain.StaffMember) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff").
		Columns(
			"tenant_id",
			"name",
			"phone",
			"email",
			"is_active",
		).
		Values(
			m.TenantID,
			m.Name,
			m.Phone,
			m.Email,
			m.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	for locationID, schedule := range m.SchedulesByLocation {
		if err := r.UpsertSchedule(ctx, m.ID, locationID, schedule); err != nil {
			return nil, err
		}
	}
	for _, serviceID := range m.ServiceIDs {
		if err := r.linkService(ctx, m.ID, serviceID); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// GetByID получает сотрудника по ID вместе с расписаниями и услугами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns...).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	m, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %v", ErrScanRow, err)
	}

	if err := r.loadRelations(ctx, []*domain.StaffMember{m}); err != nil {
		return nil, err
	}

	return m, nil
}

// GetByTenant получает всех активных сотрудников тенанта с расписаниями
// и услугами. Связи загружаются двумя пакетными запросами, без N+1.
func (r *Repository) GetByTenant(ctx context.Context, tenantID int64) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns...).
		From("staff").
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

	members := make([]*domain.StaffMember, 0)
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByTenant - scan row: %v", ErrScanRow, err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByTenant - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadRelations(ctx, members); err != nil {
		return nil, err
	}

	return members, nil
}

// GetSchedule получает расписание сотрудника на конкретной локации
func (r *Repository) GetSchedule(ctx context.Context, staffID, locationID int64) (domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("schedule").
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSchedule - build select query: %v", ErrBuildQuery, err)
	}

	var payload []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSchedule - scan schedule: %v", ErrScanRow, err)
	}

	var schedule domain.WeeklySchedule
	if err := json.Unmarshal(payload, &schedule); err != nil {
		return nil, fmt.Errorf("%w: GetSchedule - unmarshal schedule: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// UpsertSchedule заменяет расписание сотрудника на локации целиком.
// Расписание валидируется на уровне usecase до записи.
func (r *Repository) UpsertSchedule(ctx context.Context, staffID, locationID int64, schedule domain.WeeklySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(schedule.Normalized())
	if err != nil {
		return fmt.Errorf("%w: UpsertSchedule: %v", ErrMarshalSchedule, err)
	}

	query, args, err := psqlbuilder.Insert("staff_schedules").
		Columns("staff_id", "location_id", "schedule").
		Values(staffID, locationID, payload).
		Suffix("ON CONFLICT (staff_id, location_id) DO UPDATE SET schedule = EXCLUDED.schedule, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertSchedule - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertSchedule - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) linkService(ctx context.Context, staffID, serviceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_services").
		Columns("staff_id", "service_id").
		Values(staffID, serviceID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: linkService - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: linkService - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadRelations загружает расписания и услуги для набора сотрудников
// двумя запросами по списку ID
func (r *Repository) loadRelations(ctx context.Context, members []*domain.StaffMember) error {
	if len(members) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(members))
	byID := make(map[int64]*domain.StaffMember, len(members))
	for i, m := range members {
		ids[i] = m.ID
		byID[m.ID] = m
		m.SchedulesByLocation = make(map[int64]domain.WeeklySchedule)
		m.ServiceIDs = make([]int64, 0)
	}

	query, args, err := psqlbuilder.Select("staff_id", "location_id", "schedule").
		From("staff_schedules").
		Where(squirrel.Eq{"staff_id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadRelations - build schedules query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadRelations - execute schedules query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID, locationID int64
		var payload []byte
		if err := rows.Scan(&staffID, &locationID, &payload); err != nil {
			return fmt.Errorf("%w: loadRelations - scan schedule row: %v", ErrScanRow, err)
		}

		var schedule domain.WeeklySchedule
		if err := json.Unmarshal(payload, &schedule); err != nil {
			return fmt.Errorf("%w: loadRelations - unmarshal schedule: %v", ErrScanRow, err)
		}

		if m, ok := byID[staffID]; ok {
			m.SchedulesByLocation[locationID] = schedule
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadRelations - schedules rows error: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select("staff_id", "service_id").
		From("staff_services").
		Where(squirrel.Eq{"staff_id": ids}).
		OrderBy("service_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadRelations - build services query: %v", ErrBuildQuery, err)
	}

	svcRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadRelations - execute services query: %v", ErrExecQuery, err)
	}
	defer svcRows.Close()

	for svcRows.Next() {
		var staffID, serviceID int64
		if err := svcRows.Scan(&staffID, &serviceID); err != nil {
			return fmt.Errorf("%w: loadRelations - scan service row: %v", ErrScanRow, err)
		}
		if m, ok := byID[staffID]; ok {
			m.ServiceIDs = append(m.ServiceIDs, serviceID)
		}
	}
	if err := svcRows.Err(); err != nil {
		return fmt.Errorf("%w: loadRelations - services rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStaff(row rowScanner) (*domain.StaffMember, error) {
	var m domain.StaffMember
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&m.ID,
		&m.TenantID,
		&m.Name,
		&m.Phone,
		&m.Email,
		&m.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	return &m, nil
}
