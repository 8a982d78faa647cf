package update_staff_schedule

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("update_staff_schedule: staff member not found")

	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("update_staff_schedule: location not found")

	// ErrScheduleNotFound возвращается, когда у сотрудника нет расписания на локации
	ErrScheduleNotFound = errors.New("update_staff_schedule: schedule not found for location")

	// ErrAccessDenied возвращается, когда сотрудник или локация принадлежат другому тенанту
	ErrAccessDenied = errors.New("update_staff_schedule: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_staff_schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_staff_schedule: internal error")
)
