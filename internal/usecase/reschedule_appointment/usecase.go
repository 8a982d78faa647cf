package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// UseCase use case для переноса записи на новое окно.
// Перенос проходит те же проверки расписаний, что и создание; запись
// не конфликтует сама с собой. Отклонённый перенос не меняет строку -
// календарь на клиенте может спокойно откатить перетаскивание.
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

// Execute выполняет use case переноса записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, tenant=%d, date=%s, time=%s",
		req.AppointmentID, req.TenantID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем запись и проверяем доступ
	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if appt.TenantID != req.TenantID {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d belongs to tenant=%d, requested by tenant=%d",
			req.AppointmentID, appt.TenantID, req.TenantID)
		return nil, ErrAccessDenied
	}

	// 3. Переносить можно только ожидающие и подтверждённые записи
	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d has status %s", req.AppointmentID, appt.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotReschedule, appt.Status)
	}

	// 4. Контекст записи: та же услуга, тот же сотрудник, та же локация
	location, err := uc.locationRepo.GetByID(ctx, appt.LocationID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get location id=%d: %v", appt.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %v", ErrInternal, err)
	}

	staff, err := uc.staffRepo.GetByID(ctx, appt.StaffID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get staff id=%d: %v", appt.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// Длительность берём из самой записи: услуга могла измениться после
	// создания, а окно записи - нет
	endTime, err := req.StartTime.AddMinutes(appt.DurationMinutes)
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: window crosses midnight: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	oldDate := appt.Date

	// 5. Сериализуемая транзакция: валидация окна + занятость без самой записи
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := scheduling.ValidateAppointmentWindow(
			now, location, staff, appt.DurationMinutes,
			req.Date, req.StartTime, endTime,
		); err != nil {
			uc.logger.Warn("RescheduleAppointment: window validation failed: %v", err)
			return err
		}

		appointments, err := uc.apptRepo.GetActiveByStaffAndDate(txCtx, appt.StaffID, req.Date, &appt.ID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		if hasOverlap(req.StartTime.Minutes(), endTime.Minutes(), appointments) {
			uc.logger.Warn("RescheduleAppointment: slot %s-%s already taken for staff id=%d",
				req.StartTime, endTime, appt.StaffID)
			return ErrSlotNotAvailable
		}

		if err := uc.apptRepo.UpdateTimes(txCtx, appt.ID, req.Date, req.StartTime, endTime, appt.DurationMinutes); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to update times: %v", err)
			return fmt.Errorf("%w: failed to update times: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully moved appointment id=%d to %s %s",
		appt.ID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 6. Публикуем событие. Ошибка публикации не откатывает перенос.
	event := domain.AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          domain.EventAppointmentRescheduled,
		TenantID:      appt.TenantID,
		AppointmentID: appt.ID,
		OccurredAt:    now,
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.logger.Error("RescheduleAppointment: failed to publish event: %v", err)
	}

	// 7. Сбрасываем кэш на старую и новую даты
	if err := uc.cache.InvalidateStaffDate(ctx, appt.StaffID, oldDate.Format(domain.DateFormat)); err != nil {
		uc.logger.Error("RescheduleAppointment: failed to invalidate slot cache (old date): %v", err)
	}
	if err := uc.cache.InvalidateStaffDate(ctx, appt.StaffID, req.Date.Format(domain.DateFormat)); err != nil {
		uc.logger.Error("RescheduleAppointment: failed to invalidate slot cache (new date): %v", err)
	}

	return &Response{
		ID:              appt.ID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         endTime,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
	}, nil
}

func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	return nil
}

func hasOverlap(start, end int, appointments []*domain.Appointment) bool {
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		if scheduling.RangesOverlap(start, end, a.StartTime.Minutes(), a.EndTime.Minutes()) {
			return true
		}
	}
	return false
}
