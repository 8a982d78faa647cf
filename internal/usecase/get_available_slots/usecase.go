package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	locationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/location"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов.
// Результат резолвера кэшируется в Redis с коротким TTL; вычитание занятых
// окон и фильтр прошедшего времени выполняются поверх кэша - занятость
// меняется чаще, чем расписания.
type UseCase struct {
	apptRepo     AppointmentRepository
	locationRepo LocationRepository
	serviceRepo  ServiceRepository
	staffRepo    StaffRepository
	cache        SlotCache
	stepMinutes  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// stepMinutes - шаг сетки слотов из конфигурации (0 = шаг равен длительности услуги).
func NewUseCase(
	apptRepo AppointmentRepository,
	locationRepo LocationRepository,
	serviceRepo ServiceRepository,
	staffRepo StaffRepository,
	cache SlotCache,
	stepMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		locationRepo: locationRepo,
		serviceRepo:  serviceRepo,
		staffRepo:    staffRepo,
		cache:        cache,
		stepMinutes:  stepMinutes,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: location=%d, service=%d, staff=%d, date=%s",
		req.LocationID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	emptyResponse := &Response{
		Date:            req.Date,
		LocationID:      req.LocationID,
		ServiceID:       req.ServiceID,
		StaffID:         req.StaffID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// Дата в прошлом - пустой список, не ошибка
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 4. Получаем локацию
	location, err := uc.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, locationRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	// 5. Услуга должна предлагаться на этой локации
	if !service.OfferedAt(req.LocationID) {
		uc.logger.Warn("GetAvailableSlots: service id=%d not offered at location id=%d", req.ServiceID, req.LocationID)
		return nil, ErrServiceNotAtLocation
	}

	// 6. Получаем сотрудника и проверяем, что он выполняет услугу
	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Performs(req.ServiceID) {
		uc.logger.Warn("GetAvailableSlots: staff id=%d does not perform service id=%d", req.StaffID, req.ServiceID)
		return nil, ErrStaffServiceMismatch
	}

	dateKey := req.Date.Format(domain.DateFormat)

	// 7. Пробуем кэш; любая ошибка кэша - просто идём считать заново
	candidates, hit, err := uc.cache.Get(ctx, req.LocationID, req.ServiceID, req.StaffID, dateKey)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache get failed: %v", err)
	}
	if !hit {
		candidates = scheduling.ResolveDaySlots(location, staff, service, req.Date, uc.stepMinutes)
		if err := uc.cache.Set(ctx, req.LocationID, req.ServiceID, req.StaffID, dateKey, candidates); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
		}
	}

	if len(candidates) == 0 {
		uc.logger.Info("GetAvailableSlots: no working hours for staff=%d at location=%d on %s",
			req.StaffID, req.LocationID, dateKey)
		return emptyResponse, nil
	}

	// 8. Вычитаем занятые окна
	appointments, err := uc.apptRepo.GetActiveByStaffAndDate(ctx, req.StaffID, req.Date, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}
	free := scheduling.FilterConflictingSlots(candidates, appointments)

	// 9. Для сегодняшней даты убираем уже прошедшие слоты
	if isSameDay(req.Date, now) {
		free = scheduling.FilterPastSlots(free, types.NewTimeString(now))
	}

	slots := make([]Slot, len(free))
	for i, s := range free {
		slots[i] = Slot{
			StartTime: s.StartTime,
			StaffID:   s.StaffID,
		}
	}

	uc.logger.Info("GetAvailableSlots: %d slots available for staff=%d on %s", len(slots), req.StaffID, dateKey)

	return &Response{
		Date:            req.Date,
		LocationID:      req.LocationID,
		ServiceID:       req.ServiceID,
		StaffID:         req.StaffID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
