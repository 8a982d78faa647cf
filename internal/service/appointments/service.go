package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	apptRepo     AppointmentRepository
	publisher    EventPublisher
	cache        SlotCache
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	apptRepo AppointmentRepository,
	publisher EventPublisher,
	cache SlotCache,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:     apptRepo,
		publisher:    publisher,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает запись по ID
// Запись видна только в рамках своего тенанта
func (s *Service) GetByID(ctx context.Context, id int64, tenantID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for tenant=%d", id, tenantID)

	appt, err := s.loadForTenant(ctx, id, tenantID, "GetByID")
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetTenantAppointments получает записи тенанта с гибкой фильтрацией
// Поддерживает фильтрацию по локации, сотруднику, периоду, статусу
// и включение отменённых записей
func (s *Service) GetTenantAppointments(ctx context.Context, req *models.GetTenantAppointmentsRequest) (*models.AppointmentListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetTenantAppointments: fetching appointments for tenant=%d", req.TenantID)
	if req.LocationID != nil {
		logMsg += fmt.Sprintf(", location=%d", *req.LocationID)
	}
	if req.StaffID != nil {
		logMsg += fmt.Sprintf(", staff=%d", *req.StaffID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantAppointments: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.apptRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantAppointments: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantAppointments: successfully fetched %d appointments for tenant=%d",
		len(appointments), req.TenantID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Отменённая запись освобождает слот, поэтому после отмены сбрасывается
// кэш слотов сотрудника на эту дату
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d for tenant=%d", appointmentID, req.TenantID)

	appt, err := s.loadForTenant(ctx, appointmentID, req.TenantID, "Cancel")
	if err != nil {
		return err
	}

	// Отменить можно только активную запись
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	if err := s.apptRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Публикуем событие; сбой нотификации не откатывает отмену
	event := domain.AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          domain.EventAppointmentCancelled,
		TenantID:      appt.TenantID,
		AppointmentID: appt.ID,
		OccurredAt:    s.timeProvider.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Cancel: failed to publish event for appointment id=%d: %v", appointmentID, err)
	}

	// Слот освободился - сбрасываем кэш слотов сотрудника на эту дату
	dateKey := appt.Date.Format(domain.DateFormat)
	if err := s.cache.InvalidateStaffDate(ctx, appt.StaffID, dateKey); err != nil {
		s.logger.Warn("Cancel: cache invalidation failed for staff=%d date=%s: %v", appt.StaffID, dateKey, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// UpdateStatus обновляет статус записи
// Менять статус можно только у записей в pending или confirmed;
// отмена идёт через Cancel, а не сюда
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s for tenant=%d",
		appointmentID, req.Status, req.TenantID)

	appt, err := s.loadForTenant(ctx, appointmentID, req.TenantID, "UpdateStatus")
	if err != nil {
		return err
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation of appointment id=%d must go through Cancel", appointmentID)
		return fmt.Errorf("%w: use cancel endpoint", ErrInvalidStatusTransition)
	}

	// Завершённые и отменённые записи статус уже не меняют
	if appt.Status != domain.StatusPending && appt.Status != domain.StatusConfirmed {
		s.logger.Warn("UpdateStatus: appointment id=%d has terminal status=%s", appointmentID, appt.Status)
		return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, appt.Status, newStatus)
	}

	if err := s.apptRepo.UpdateStatus(ctx, appointmentID, newStatus); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// loadForTenant получает запись и проверяет принадлежность тенанту
func (s *Service) loadForTenant(ctx context.Context, id, tenantID int64, op string) (*domain.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if appt.TenantID != tenantID {
		s.logger.Warn("%s: appointment id=%d belongs to another tenant", op, id)
		return nil, ErrAccessDenied
	}

	return appt, nil
}
