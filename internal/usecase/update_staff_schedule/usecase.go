package update_staff_schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	locationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/location"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// UseCase use case для правки расписания сотрудника на локации.
// Два режима: точечная правка одной границы блока (календарь в админке)
// и замена недельного расписания целиком. Оба режима copy-on-write:
// при любой ошибке валидации сохранённое расписание не меняется.
type UseCase struct {
	staffRepo    StaffRepository
	locationRepo LocationRepository
	cache        SlotCache
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	staffRepo StaffRepository,
	locationRepo LocationRepository,
	cache SlotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		staffRepo:    staffRepo,
		locationRepo: locationRepo,
		cache:        cache,
		logger:       logger,
	}
}

// EditBlock меняет одну границу одного блока расписания
func (uc *UseCase) EditBlock(ctx context.Context, req *BlockEditRequest) (*Response, error) {
	uc.logger.Info("UpdateStaffSchedule: edit block staff=%d, location=%d, day=%s, index=%d, %s=%s",
		req.StaffID, req.LocationID, req.Day, req.BlockIndex, req.Field, req.Value)

	// 1. Загружаем локацию и сотрудника с проверкой доступа
	location, err := uc.loadLocation(ctx, req.TenantID, req.LocationID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.loadStaff(ctx, req.TenantID, req.StaffID); err != nil {
		return nil, err
	}

	// 2. Текущее расписание сотрудника на локации
	schedule, err := uc.staffRepo.GetSchedule(ctx, req.StaffID, req.LocationID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrScheduleNotFound) {
			uc.logger.Warn("UpdateStaffSchedule: no schedule for staff=%d at location=%d", req.StaffID, req.LocationID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("UpdateStaffSchedule: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 3. Правка применяется к копии; при ошибке валидации сохранённое расписание не меняется
	updated, err := scheduling.WithBlockUpdated(
		schedule, location.OperatingHours,
		req.Day, req.BlockIndex, req.Field, req.Value,
	)
	if err != nil {
		uc.logger.Warn("UpdateStaffSchedule: edit rejected: %v", err)
		return nil, err
	}

	// 4. Сохраняем и сбрасываем кэш слотов сотрудника
	if err := uc.staffRepo.UpsertSchedule(ctx, req.StaffID, req.LocationID, updated); err != nil {
		uc.logger.Error("UpdateStaffSchedule: failed to persist schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to persist schedule: %v", ErrInternal, err)
	}
	uc.invalidate(ctx, req.StaffID)

	uc.logger.Info("UpdateStaffSchedule: block updated for staff=%d at location=%d", req.StaffID, req.LocationID)

	return &Response{
		StaffID:    req.StaffID,
		LocationID: req.LocationID,
		Schedule:   updated,
	}, nil
}

// Replace заменяет недельное расписание сотрудника на локации целиком
func (uc *UseCase) Replace(ctx context.Context, req *ReplaceRequest) (*Response, error) {
	uc.logger.Info("UpdateStaffSchedule: replace staff=%d, location=%d", req.StaffID, req.LocationID)

	// 1. Загружаем локацию и сотрудника с проверкой доступа
	location, err := uc.loadLocation(ctx, req.TenantID, req.LocationID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.loadStaff(ctx, req.TenantID, req.StaffID); err != nil {
		return nil, err
	}

	// 2. Новое расписание обязано быть подмножеством часов локации
	if err := scheduling.ValidateScheduleSubset(location.OperatingHours, req.Schedule); err != nil {
		uc.logger.Warn("UpdateStaffSchedule: replace rejected: %v", err)
		return nil, err
	}

	normalized := req.Schedule.Normalized()

	// 3. Сохраняем и сбрасываем кэш слотов сотрудника
	if err := uc.staffRepo.UpsertSchedule(ctx, req.StaffID, req.LocationID, normalized); err != nil {
		uc.logger.Error("UpdateStaffSchedule: failed to persist schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to persist schedule: %v", ErrInternal, err)
	}
	uc.invalidate(ctx, req.StaffID)

	uc.logger.Info("UpdateStaffSchedule: schedule replaced for staff=%d at location=%d", req.StaffID, req.LocationID)

	return &Response{
		StaffID:    req.StaffID,
		LocationID: req.LocationID,
		Schedule:   normalized,
	}, nil
}

// loadLocation загружает локацию и проверяет принадлежность тенанту
func (uc *UseCase) loadLocation(ctx context.Context, tenantID, locationID int64) (*domain.Location, error) {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("UpdateStaffSchedule: location id=%d not found", locationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("UpdateStaffSchedule: failed to get location id=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}
	if location.TenantID != tenantID {
		uc.logger.Warn("UpdateStaffSchedule: location id=%d belongs to another tenant", locationID)
		return nil, ErrAccessDenied
	}
	return location, nil
}

// loadStaff загружает сотрудника и проверяет принадлежность тенанту
func (uc *UseCase) loadStaff(ctx context.Context, tenantID, staffID int64) (*domain.StaffMember, error) {
	staff, err := uc.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("UpdateStaffSchedule: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("UpdateStaffSchedule: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if staff.TenantID != tenantID {
		uc.logger.Warn("UpdateStaffSchedule: staff id=%d belongs to another tenant", staffID)
		return nil, ErrAccessDenied
	}
	return staff, nil
}

// invalidate сбрасывает все закэшированные слоты сотрудника
func (uc *UseCase) invalidate(ctx context.Context, staffID int64) {
	if err := uc.cache.InvalidateStaff(ctx, staffID); err != nil {
		uc.logger.Warn("UpdateStaffSchedule: cache invalidation failed for staff=%d: %v", staffID, err)
	}
}
