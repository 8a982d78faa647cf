package update_staff_schedule

import (
	catalogModels "github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
	updateStaffSchedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_staff_schedule"
)

// UpdateStaffScheduleRequest HTTP request model
type UpdateStaffScheduleRequest struct {
	Schedule catalogModels.ScheduleDTO `json:"schedule"`
}

// StaffScheduleResponse HTTP response model
type StaffScheduleResponse struct {
	StaffID    int64                     `json:"staffId"`
	LocationID int64                     `json:"locationId"`
	Schedule   catalogModels.ScheduleDTO `json:"schedule"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateStaffScheduleRequest) ToUseCaseRequest(tenantID, staffID, locationID int64) (*updateStaffSchedule.ReplaceRequest, error) {
	schedule, err := r.Schedule.ToDomainSchedule()
	if err != nil {
		return nil, err
	}

	return &updateStaffSchedule.ReplaceRequest{
		TenantID:   tenantID,
		StaffID:    staffID,
		LocationID: locationID,
		Schedule:   schedule,
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
