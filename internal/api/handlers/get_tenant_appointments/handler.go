package get_tenant_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgMissingTenantID = "отсутствует ID тенанта"
	msgInvalidParams   = "некорректные параметры запроса"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/appointments
// Query params: locationId, staffId, status, startDate, endDate,
// includeInactive (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Тенант из заголовка должен совпадать с тенантом из URL
	headerTenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /tenants/{id}/appointments - Missing tenant ID header")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}
	if headerTenantID != tenantID {
		h.logger.Warn("GET /tenants/{id}/appointments - Tenant mismatch: url=%d, header=%d", tenantID, headerTenantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		tenantID,
		query.Get("locationId"),
		query.Get("staffId"),
		query.Get("status"),
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTenantAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/appointments - Invalid filter: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tenants/{id}/appointments - Failed to get appointments: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/appointments - Appointments retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
