package update_staff_schedule

import (
	"context"

	updateStaffSchedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_staff_schedule"
)

type UpdateStaffScheduleUseCase interface {
	Replace(ctx context.Context, req *updateStaffSchedule.ReplaceRequest) (*updateStaffSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
