package update_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	rescheduleAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgEmptyUpdate          = "не указано ни одно поле для обновления"
	msgInvalidStartTime     = "некорректное время начала, ожидается ISO 8601"
	msgMissingTenantID      = "отсутствует ID тенанта"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgCannotReschedule     = "запись нельзя перенести в текущем статусе"
	msgInvalidStatus        = "некорректный статус записи"
)

type Handler struct {
	rescheduleUC RescheduleAppointmentUseCase
	service      AppointmentService
	logger       Logger
}

func NewHandler(rescheduleUC RescheduleAppointmentUseCase, service AppointmentService, logger Logger) *Handler {
	return &Handler{
		rescheduleUC: rescheduleUC,
		service:      service,
		logger:       logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}
// Перенос времени идёт через reschedule use case, смена статуса - через
// сервис записей. При отказе в переносе запись остаётся нетронутой,
// календарь на клиенте может откатить перемещение.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id} - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Status == nil && req.StartTime == nil {
		h.logger.Warn("PATCH /appointments/{id} - Empty update: appointment_id=%d", appointmentID)
		handlers.RespondBadRequest(w, msgEmptyUpdate)
		return
	}

	// 1. Перенос времени
	if req.StartTime != nil {
		rescheduleReq, err := req.ToRescheduleRequest(appointmentID, tenantID)
		if err != nil {
			h.logger.Warn("PATCH /appointments/{id} - Failed to parse startTime: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStartTime)
			return
		}

		if _, err := h.rescheduleUC.Execute(r.Context(), rescheduleReq); err != nil {
			h.respondRescheduleError(w, appointmentID, tenantID, err)
			return
		}
	}

	// 2. Смена статуса
	if req.Status != nil {
		statusReq := &models.UpdateStatusRequest{
			TenantID: tenantID,
			Status:   *req.Status,
		}
		if err := h.service.UpdateStatus(r.Context(), appointmentID, statusReq); err != nil {
			h.respondStatusError(w, appointmentID, tenantID, err)
			return
		}
	}

	// 3. Возвращаем актуальное состояние записи
	updated, err := h.service.GetByID(r.Context(), appointmentID, tenantID)
	if err != nil {
		h.logger.Error("PATCH /appointments/{id} - Failed to reload appointment: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment updated successfully: appointment_id=%d, tenant_id=%d",
		appointmentID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) respondRescheduleError(w http.ResponseWriter, appointmentID, tenantID int64, err error) {
	switch {
	case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
		h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, rescheduleAppointment.ErrAccessDenied):
		h.logger.Warn("PATCH /appointments/{id} - Access denied: appointment_id=%d, tenant_id=%d",
			appointmentID, tenantID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, rescheduleAppointment.ErrSlotNotAvailable):
		h.logger.Warn("PATCH /appointments/{id} - Slot not available: appointment_id=%d", appointmentID)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, rescheduleAppointment.ErrCannotReschedule):
		h.logger.Warn("PATCH /appointments/{id} - Cannot reschedule: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondConflict(w, msgCannotReschedule)

	case errors.Is(err, scheduling.ErrValidation):
		// Текст ошибки валидации содержит конкретные границы расписания
		h.logger.Warn("PATCH /appointments/{id} - Window validation failed: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
		h.logger.Warn("PATCH /appointments/{id} - Invalid input: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("PATCH /appointments/{id} - Failed to reschedule: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
	}
}

func (h *Handler) respondStatusError(w http.ResponseWriter, appointmentID, tenantID int64, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, appointments.ErrAccessDenied):
		h.logger.Warn("PATCH /appointments/{id} - Access denied: appointment_id=%d, tenant_id=%d",
			appointmentID, tenantID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, appointments.ErrInvalidStatusTransition):
		h.logger.Warn("PATCH /appointments/{id} - Invalid status transition: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondConflict(w, err.Error())

	case errors.Is(err, appointments.ErrInvalidInput):
		h.logger.Warn("PATCH /appointments/{id} - Invalid status: appointment_id=%d, error=%v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidStatus)

	default:
		h.logger.Error("PATCH /appointments/{id} - Failed to update status: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
