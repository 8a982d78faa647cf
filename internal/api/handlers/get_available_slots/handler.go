package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidLocationID    = "некорректный ID локации"
	msgInvalidServiceID     = "некорректный ID услуги"
	msgInvalidStaffID       = "некорректный ID сотрудника"
	msgMissingParams        = "параметры locationId, serviceId, staffId и date обязательны"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgLocationNotFound     = "локация не найдена"
	msgServiceNotFound      = "услуга не найдена"
	msgStaffNotFound        = "сотрудник не найден"
	msgServiceNotAtLocation = "услуга недоступна на выбранной локации"
	msgStaffServiceMismatch = "сотрудник не выполняет выбранную услугу"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar/available-slots
// Query params: locationId, serviceId, staffId, date (все обязательны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	locationIDStr := query.Get("locationId")
	serviceIDStr := query.Get("serviceId")
	staffIDStr := query.Get("staffId")
	dateStr := query.Get("date")

	if locationIDStr == "" || serviceIDStr == "" || staffIDStr == "" || dateStr == "" {
		h.logger.Warn("GET /calendar/available-slots - Missing required query params")
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	locationID, err := strconv.ParseInt(locationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /calendar/available-slots - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /calendar/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /calendar/available-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(locationID, serviceID, staffID, dateStr)
	if err != nil {
		h.logger.Warn("GET /calendar/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrLocationNotFound):
			h.logger.Warn("GET /calendar/available-slots - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /calendar/available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /calendar/available-slots - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotAtLocation):
			h.logger.Warn("GET /calendar/available-slots - Service not at location: service_id=%d, location_id=%d",
				serviceID, locationID)
			handlers.RespondBadRequest(w, msgServiceNotAtLocation)

		case errors.Is(err, getAvailableSlots.ErrStaffServiceMismatch):
			h.logger.Warn("GET /calendar/available-slots - Staff does not perform service: staff_id=%d, service_id=%d",
				staffID, serviceID)
			handlers.RespondBadRequest(w, msgStaffServiceMismatch)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /calendar/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /calendar/available-slots - Failed to get slots: location_id=%d, service_id=%d, staff_id=%d, error=%v",
				locationID, serviceID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /calendar/available-slots - Slots retrieved successfully: location_id=%d, staff_id=%d, slots_count=%d",
		locationID, staffID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
