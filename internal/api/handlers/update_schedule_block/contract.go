package update_schedule_block

import (
	"context"

	updateStaffSchedule "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_staff_schedule"
)

type UpdateStaffScheduleUseCase interface {
	EditBlock(ctx context.Context, req *updateStaffSchedule.BlockEditRequest) (*updateStaffSchedule.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
