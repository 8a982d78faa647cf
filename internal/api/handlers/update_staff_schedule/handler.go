package update_staff_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	updateStaffSchedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_staff_schedule"
)

const (
	msgInvalidStaffID     = "некорректный ID сотрудника"
	msgInvalidLocationID  = "некорректный ID локации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgStaffNotFound      = "сотрудник не найден"
	msgLocationNotFound   = "локация не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	useCase UpdateStaffScheduleUseCase
	logger  Logger
}

func NewHandler(useCase UpdateStaffScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/staff/{staffId}/locations/{locationId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req UpdateStaffScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID, staffID, locationID)
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Invalid schedule: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Replace(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateStaffSchedule.ErrStaffNotFound):
			h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, updateStaffSchedule.ErrLocationNotFound):
			h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, updateStaffSchedule.ErrAccessDenied):
			h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Access denied: staff_id=%d, tenant_id=%d",
				staffID, tenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, scheduling.ErrValidation):
			// Текст ошибки валидации содержит конкретные границы часов локации
			h.logger.Warn("PUT /staff/{id}/locations/{id}/schedule - Schedule validation failed: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /staff/{id}/locations/{id}/schedule - Failed to replace schedule: staff_id=%d, location_id=%d, error=%v",
				staffID, locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/{id}/locations/{id}/schedule - Schedule replaced successfully: staff_id=%d, location_id=%d",
		staffID, locationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
