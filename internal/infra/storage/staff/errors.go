package staff

import "errors"

var (
	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("staff.repository: staff member not found")

	// ErrScheduleNotFound возвращается, когда у сотрудника нет расписания на локации
	ErrScheduleNotFound = errors.New("staff.repository: schedule not found for location")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staff.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staff.repository: failed to scan row")

	// ErrMarshalSchedule возвращается при ошибке сериализации расписания
	ErrMarshalSchedule = errors.New("staff.repository: failed to marshal schedule")
)
