package update_schedule_block

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
	msgScheduleNotFound   = "расписание не найдено"
	msgForbidden          = "доступ запрещен"
	msgBlockIndex         = "некорректный индекс блока"
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

// Handle PATCH /api/v1/staff/{staffId}/locations/{locationId}/schedule/block
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	locationID, err := strconv.ParseInt(vars["locationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req EditScheduleBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID, staffID, locationID)
	if err != nil {
		h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.EditBlock(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateStaffSchedule.ErrStaffNotFound):
			h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, updateStaffSchedule.ErrLocationNotFound):
			h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Location not found: location_id=%d", locationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, updateStaffSchedule.ErrScheduleNotFound):
			h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Schedule not found: staff_id=%d, location_id=%d",
				staffID, locationID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, updateStaffSchedule.ErrAccessDenied):
			h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Access denied: staff_id=%d, tenant_id=%d",
				staffID, tenantID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, scheduling.ErrBlockIndexOutOfRange):
			h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Block index out of range: staff_id=%d, index=%d",
				staffID, req.BlockIndex)
			handlers.RespondBadRequest(w, msgBlockIndex)

		case errors.Is(err, scheduling.ErrValidation):
			// Текст ошибки валидации содержит конкретные границы часов локации
			h.logger.Warn("PATCH /staff/{id}/locations/{id}/schedule/block - Edit rejected: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /staff/{id}/locations/{id}/schedule/block - Failed to edit block: staff_id=%d, location_id=%d, error=%v",
				staffID, locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /staff/{id}/locations/{id}/schedule/block - Block updated successfully: staff_id=%d, location_id=%d",
		staffID, locationID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
