package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	locationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/location"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// UseCase use case для создания записи клиента
type UseCase struct {
	apptRepo     AppointmentRepository
	locationRepo LocationRepository
	serviceRepo  ServiceRepository
	staffRepo    StaffRepository
	txManager    TransactionManager
	events       EventPublisher
	cache        SlotCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	locationRepo LocationRepository,
	serviceRepo ServiceRepository,
	staffRepo StaffRepository,
	txManager TransactionManager,
	events EventPublisher,
	cache SlotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		locationRepo: locationRepo,
		serviceRepo:  serviceRepo,
		staffRepo:    staffRepo,
		txManager:    txManager,
		events:       events,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка занятости и вставка идут в сериализуемой транзакции с блокировкой
// строк сотрудника на дату - двойное бронирование невозможно даже при
// одновременных запросах на один слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: tenant=%d, location=%d, service=%d, staff=%d, date=%s, time=%s",
		req.TenantID, req.LocationID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу и проверяем принадлежность тенанту
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.TenantID != req.TenantID || !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d not available for tenant=%d", req.ServiceID, req.TenantID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем локацию
	location, err := uc.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("CreateAppointment: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}
	if location.TenantID != req.TenantID || !location.IsActive {
		uc.logger.Warn("CreateAppointment: location id=%d not available for tenant=%d", req.LocationID, req.TenantID)
		return nil, ErrLocationNotFound
	}

	// 5. Услуга должна предлагаться на этой локации
	if !service.OfferedAt(req.LocationID) {
		uc.logger.Warn("CreateAppointment: service id=%d not offered at location id=%d", req.ServiceID, req.LocationID)
		return nil, ErrServiceNotAtLocation
	}

	// 6. Получаем сотрудника и проверяем, что он выполняет услугу
	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if staff.TenantID != req.TenantID || !staff.IsActive {
		uc.logger.Warn("CreateAppointment: staff id=%d not available for tenant=%d", req.StaffID, req.TenantID)
		return nil, ErrStaffNotFound
	}
	if !staff.Performs(req.ServiceID) {
		uc.logger.Warn("CreateAppointment: staff id=%d does not perform service id=%d", req.StaffID, req.ServiceID)
		return nil, ErrStaffServiceMismatch
	}

	// 7. Вычисляем конец окна: start + длительность услуги
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: window crosses midnight: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	timezone := location.Timezone
	if req.Timezone != nil && *req.Timezone != "" {
		timezone = *req.Timezone
	}

	var result *domain.Appointment

	// 8. Сериализуемая транзакция: валидация окна + проверка занятости + вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Окно должно проходить все проверки расписаний
		if err := scheduling.ValidateAppointmentWindow(
			now, location, staff, service.DurationMinutes,
			req.Date, req.StartTime, endTime,
		); err != nil {
			uc.logger.Warn("CreateAppointment: window validation failed: %v", err)
			return err
		}

		// 8.2. Активные записи сотрудника на дату с блокировкой (FOR UPDATE)
		appointments, err := uc.apptRepo.GetActiveByStaffAndDate(txCtx, req.StaffID, req.Date, nil)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 8.3. Проверяем пересечение с занятыми окнами
		if hasOverlap(req.StartTime.Minutes(), endTime.Minutes(), appointments) {
			uc.logger.Warn("CreateAppointment: slot %s-%s already taken for staff id=%d",
				req.StartTime, endTime, req.StaffID)
			return ErrSlotNotAvailable
		}

		// 8.4. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			TenantID:        req.TenantID,
			LocationID:      req.LocationID,
			ServiceID:       req.ServiceID,
			StaffID:         req.StaffID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: service.DurationMinutes,
			Timezone:        timezone,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 9. Публикуем событие. Ошибка публикации не откатывает запись.
	event := domain.AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          domain.EventAppointmentCreated,
		TenantID:      result.TenantID,
		AppointmentID: result.ID,
		OccurredAt:    now,
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish event: %v", err)
	}

	// 10. Сбрасываем кэш слотов сотрудника на эту дату
	if err := uc.cache.InvalidateStaffDate(ctx, result.StaffID, result.Date.Format(domain.DateFormat)); err != nil {
		uc.logger.Error("CreateAppointment: failed to invalidate slot cache: %v", err)
	}

	return toResponse(result), nil
}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:              appt.ID,
		TenantID:        appt.TenantID,
		LocationID:      appt.LocationID,
		ServiceID:       appt.ServiceID,
		StaffID:         appt.StaffID,
		CustomerName:    appt.CustomerName,
		CustomerPhone:   appt.CustomerPhone,
		CustomerEmail:   appt.CustomerEmail,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		EndTime:         appt.EndTime,
		DurationMinutes: appt.DurationMinutes,
		Timezone:        appt.Timezone,
		Status:          string(appt.Status),
		ServiceName:     appt.ServiceName,
		ServicePrice:    appt.ServicePrice,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}
}
