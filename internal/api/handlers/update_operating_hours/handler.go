package update_operating_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

const (
	msgInvalidLocationID  = "некорректный ID локации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgLocationNotFound   = "локация не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/locations/{locationId}/operating-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /locations/{id}/operating-hours - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PUT /locations/{id}/operating-hours - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req models.UpdateOperatingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /locations/{id}/operating-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TenantID = tenantID

	result, err := h.service.UpdateOperatingHours(r.Context(), locationID, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrLocationNotFound):
			h.logger.Warn("PUT /locations/{id}/operating-hours - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("PUT /locations/{id}/operating-hours - Access denied: location_id=%d, tenant_id=%d",
				locationID, tenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, scheduling.ErrValidation):
			// Текст ошибки валидации называет конкретный день и блок
			h.logger.Warn("PUT /locations/{id}/operating-hours - Invalid hours: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("PUT /locations/{id}/operating-hours - Invalid input: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /locations/{id}/operating-hours - Failed to update hours: location_id=%d, error=%v",
				locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /locations/{id}/operating-hours - Hours updated successfully: location_id=%d, tenant_id=%d",
		locationID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
