package update_schedule_block

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	catalogModels "github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	updateStaffSchedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_staff_schedule"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// EditScheduleBlockRequest HTTP request model.
// Правка одной границы одного блока: день, индекс блока, поле (start/end)
// и новое значение "HH:MM".
type EditScheduleBlockRequest struct {
	Day        string `json:"day"` // "monday" ... "sunday"
	BlockIndex int    `json:"blockIndex"`
	Field      string `json:"field"` // "start" или "end"
	Value      string `json:"value"` // "HH:MM"
}

// StaffScheduleResponse HTTP response model
type StaffScheduleResponse struct {
	StaffID    int64                     `json:"staffId"`
	LocationID int64                     `json:"locationId"`
	Schedule   catalogModels.ScheduleDTO `json:"schedule"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *EditScheduleBlockRequest) ToUseCaseRequest(tenantID, staffID, locationID int64) (*updateStaffSchedule.BlockEditRequest, error) {
	day, err := catalogModels.ToWeekday(r.Day)
	if err != nil {
		return nil, err
	}

	var field scheduling.BlockField
	switch r.Field {
	case string(scheduling.FieldStart):
		field = scheduling.FieldStart
	case string(scheduling.FieldEnd):
		field = scheduling.FieldEnd
	default:
		return nil, errors.New("field must be start or end")
	}

	value, err := types.NewTimeStringFromString(r.Value)
	if err != nil {
		return nil, err
	}

	return &updateStaffSchedule.BlockEditRequest{
		TenantID:   tenantID,
		StaffID:    staffID,
		LocationID: locationID,
		Day:        day,
		BlockIndex: r.BlockIndex,
		Field:      field,
		Value:      value,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateStaffSchedule.Response) *StaffScheduleResponse {
	return &StaffScheduleResponse{
		StaffID:    resp.StaffID,
		LocationID: resp.LocationID,
		Schedule:   catalogModels.FromDomainSchedule(resp.Schedule),
	}
}
