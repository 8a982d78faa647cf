package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartTime     = "некорректное время начала, ожидается ISO 8601"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
	msgLocationNotFound     = "локация не найдена"
	msgServiceNotFound      = "услуга не найдена"
	msgStaffNotFound        = "сотрудник не найден"
	msgServiceNotAtLocation = "услуга недоступна на выбранной локации"
	msgStaffServiceMismatch = "сотрудник не выполняет выбранную услугу"
	msgInvalidInput         = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с разбором ISO 8601)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse startTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: staff_id=%d, start=%s", req.StaffID, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrLocationNotFound):
			h.logger.Warn("POST /appointments - Location not found: location_id=%d", req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotAtLocation):
			h.logger.Warn("POST /appointments - Service not at location: service_id=%d, location_id=%d",
				req.ServiceID, req.LocationID)
			handlers.RespondBadRequest(w, msgServiceNotAtLocation)

		case errors.Is(err, createAppointment.ErrStaffServiceMismatch):
			h.logger.Warn("POST /appointments - Staff does not perform service: staff_id=%d, service_id=%d",
				req.StaffID, req.ServiceID)
			handlers.RespondBadRequest(w, msgStaffServiceMismatch)

		case errors.Is(err, scheduling.ErrValidation):
			// Текст ошибки валидации содержит конкретные границы расписания
			h.logger.Warn("POST /appointments - Window validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: tenant_id=%d, error=%v",
				req.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, tenant_id=%d",
		result.ID, req.TenantID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
