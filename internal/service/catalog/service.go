package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	locationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/location"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/selection"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога: локации, услуги, сотрудники и каскадный
// выбор для записи
type Service struct {
	locationRepo LocationRepository
	serviceRepo  ServiceRepository
	staffRepo    StaffRepository
	cache        SlotCache
	logger       Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	locationRepo LocationRepository,
	serviceRepo ServiceRepository,
	staffRepo StaffRepository,
	cache SlotCache,
	logger Logger,
) *Service {
	return &Service{
		locationRepo: locationRepo,
		serviceRepo:  serviceRepo,
		staffRepo:    staffRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetBookingOptions возвращает каскадные варианты выбора для записи.
// Без параметров - только активные локации; с локацией - плюс услуги на ней;
// с локацией и услугой - плюс мастера, которые выполняют услугу на локации.
func (s *Service) GetBookingOptions(ctx context.Context, req *models.GetBookingOptionsRequest) (*models.BookingOptionsResponse, error) {
	s.logger.Info("GetBookingOptions: tenant=%d, location=%v, service=%v",
		req.TenantID, req.LocationID, req.ServiceID)

	opts, err := s.loadOptions(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	// Выбранные шаги должны существовать в каталоге тенанта
	if req.LocationID != nil {
		if _, ok := opts.LocationByID(*req.LocationID); !ok {
			s.logger.Warn("GetBookingOptions: location id=%d not found for tenant=%d", *req.LocationID, req.TenantID)
			return nil, ErrLocationNotFound
		}
	}
	if req.ServiceID != nil {
		if req.LocationID == nil {
			s.logger.Warn("GetBookingOptions: service selected without location for tenant=%d", req.TenantID)
			return nil, fmt.Errorf("%w: service requires location", ErrInvalidInput)
		}
		if _, ok := opts.ServiceByID(*req.ServiceID); !ok {
			s.logger.Warn("GetBookingOptions: service id=%d not found for tenant=%d", *req.ServiceID, req.TenantID)
			return nil, ErrServiceNotFound
		}
	}

	resp := models.FromSelectionOptions(opts, req.LocationID, req.ServiceID)

	s.logger.Info("GetBookingOptions: tenant=%d - %d locations, %d services, %d staff",
		req.TenantID, len(resp.Locations), len(resp.Services), len(resp.Staff))
	return resp, nil
}

// GetLocation получает локацию по ID с проверкой тенанта
func (s *Service) GetLocation(ctx context.Context, id int64, tenantID int64) (*models.LocationResponse, error) {
	s.logger.Info("GetLocation: fetching location id=%d for tenant=%d", id, tenantID)

	location, err := s.loadLocation(ctx, id, tenantID, "GetLocation")
	if err != nil {
		return nil, err
	}

	return models.FromDomainLocation(location), nil
}

// UpdateOperatingHours обновляет часы работы локации.
// Каждый день проверяется на корректность блоков; расписания сотрудников
// при этом не пересчитываются - они валидируются на пути правки расписания.
func (s *Service) UpdateOperatingHours(ctx context.Context, locationID int64, req *models.UpdateOperatingHoursRequest) (*models.LocationResponse, error) {
	s.logger.Info("UpdateOperatingHours: location id=%d, tenant=%d", locationID, req.TenantID)

	location, err := s.loadLocation(ctx, locationID, req.TenantID, "UpdateOperatingHours")
	if err != nil {
		return nil, err
	}

	hours, err := req.OperatingHours.ToDomainSchedule()
	if err != nil {
		s.logger.Warn("UpdateOperatingHours: invalid schedule for location id=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Валидируем каждый день нового расписания
	for day := time.Sunday; day <= time.Saturday; day++ {
		ds, ok := hours[day]
		if !ok {
			continue
		}
		if err := scheduling.ValidateDaySchedule(ds); err != nil {
			s.logger.Warn("UpdateOperatingHours: invalid %s for location id=%d: %v", day, locationID, err)
			return nil, err
		}
	}

	normalized := hours.Normalized()
	if err := s.locationRepo.UpdateOperatingHours(ctx, locationID, normalized); err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("UpdateOperatingHours: location id=%d not found during update", locationID)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("UpdateOperatingHours: repository error for location id=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: UpdateOperatingHours - repository error: %v", ErrInternal, err)
	}

	// Часы изменились - закэшированные слоты локации устарели
	if err := s.cache.InvalidateLocation(ctx, locationID); err != nil {
		s.logger.Warn("UpdateOperatingHours: cache invalidation failed for location id=%d: %v", locationID, err)
	}

	location.OperatingHours = normalized
	s.logger.Info("UpdateOperatingHours: successfully updated location id=%d", locationID)
	return models.FromDomainLocation(location), nil
}

// GetStaffSchedule получает расписание сотрудника на локации
func (s *Service) GetStaffSchedule(ctx context.Context, staffID, locationID, tenantID int64) (*models.StaffScheduleResponse, error) {
	s.logger.Info("GetStaffSchedule: staff=%d, location=%d, tenant=%d", staffID, locationID, tenantID)

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("GetStaffSchedule: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetStaffSchedule: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - repository error: %v", ErrInternal, err)
	}
	if staff.TenantID != tenantID {
		s.logger.Warn("GetStaffSchedule: staff id=%d belongs to another tenant", staffID)
		return nil, ErrAccessDenied
	}

	schedule, err := s.staffRepo.GetSchedule(ctx, staffID, locationID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrScheduleNotFound) {
			s.logger.Warn("GetStaffSchedule: no schedule for staff=%d at location=%d", staffID, locationID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetStaffSchedule: failed to get schedule staff=%d location=%d: %v", staffID, locationID, err)
		return nil, fmt.Errorf("%w: GetStaffSchedule - repository error: %v", ErrInternal, err)
	}

	return &models.StaffScheduleResponse{
		StaffID:    staffID,
		LocationID: locationID,
		Schedule:   models.FromDomainSchedule(schedule),
	}, nil
}

// loadOptions загружает каталог тенанта тремя запросами
func (s *Service) loadOptions(ctx context.Context, tenantID int64) (*selection.Options, error) {
	locations, err := s.locationRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("loadOptions: failed to get locations for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: loadOptions - locations: %v", ErrInternal, err)
	}

	services, err := s.serviceRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("loadOptions: failed to get services for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: loadOptions - services: %v", ErrInternal, err)
	}

	staff, err := s.staffRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("loadOptions: failed to get staff for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: loadOptions - staff: %v", ErrInternal, err)
	}

	return &selection.Options{
		Locations: locations,
		Services:  services,
		Staff:     staff,
	}, nil
}

// loadLocation получает локацию и проверяет принадлежность тенанту
func (s *Service) loadLocation(ctx context.Context, id, tenantID int64, op string) (*domain.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			s.logger.Warn("%s: location id=%d not found", op, id)
			return nil, ErrLocationNotFound
		}
		s.logger.Error("%s: repository error for location id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if location.TenantID != tenantID {
		s.logger.Warn("%s: location id=%d belongs to another tenant", op, id)
		return nil, ErrAccessDenied
	}

	return location, nil
}
