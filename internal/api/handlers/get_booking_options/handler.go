package get_booking_options

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

const (
	msgInvalidTenantID   = "некорректный ID тенанта"
	msgInvalidLocationID = "некорректный ID локации"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgLocationNotFound  = "локация не найдена"
	msgServiceNotFound   = "услуга не найдена"
	msgInvalidParams     = "некорректные параметры запроса"
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

// Handle GET /api/v1/tenants/{tenantId}/booking-options
// Query params: locationId, serviceId (опционально, каждый следующий шаг
// каскада открывается после выбора предыдущего)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/booking-options - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	req := &models.GetBookingOptionsRequest{TenantID: tenantID}

	if raw := r.URL.Query().Get("locationId"); raw != "" {
		locationID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/booking-options - Invalid location ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLocationID)
			return
		}
		req.LocationID = &locationID
	}

	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		serviceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/booking-options - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	result, err := h.service.GetBookingOptions(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrLocationNotFound):
			h.logger.Warn("GET /tenants/{id}/booking-options - Location not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, catalog.ErrServiceNotFound):
			h.logger.Warn("GET /tenants/{id}/booking-options - Service not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/booking-options - Invalid params: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tenants/{id}/booking-options - Failed to get options: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/booking-options - Options retrieved successfully: tenant_id=%d, locations=%d",
		tenantID, len(result.Locations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
