package get_staff_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
)

const (
	msgInvalidStaffID    = "некорректный ID сотрудника"
	msgInvalidLocationID = "некорректный ID локации"
	msgMissingTenantID   = "отсутствует ID тенанта"
	msgStaffNotFound     = "сотрудник не найден"
	msgScheduleNotFound  = "расписание не найдено"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/staff/{staffId}/locations/{locationId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/locations/{id}/schedule - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/locations/{id}/schedule - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /staff/{id}/locations/{id}/schedule - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	result, err := h.service.GetStaffSchedule(r.Context(), staffID, locationID, tenantID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/locations/{id}/schedule - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, catalog.ErrScheduleNotFound):
			h.logger.Warn("GET /staff/{id}/locations/{id}/schedule - Schedule not found: staff_id=%d, location_id=%d",
				staffID, locationID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, catalog.ErrAccessDenied):
			h.logger.Warn("GET /staff/{id}/locations/{id}/schedule - Access denied: staff_id=%d, tenant_id=%d",
				staffID, tenantID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /staff/{id}/locations/{id}/schedule - Failed to get schedule: staff_id=%d, location_id=%d, error=%v",
				staffID, locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/locations/{id}/schedule - Schedule retrieved successfully: staff_id=%d, location_id=%d",
		staffID, locationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
