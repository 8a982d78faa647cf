package create_appointment

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("create_appointment: location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_appointment: staff member not found")

	// ErrServiceNotAtLocation возвращается, когда услуга не предлагается на локации
	ErrServiceNotAtLocation = errors.New("create_appointment: service is not offered at this location")

	// ErrStaffServiceMismatch возвращается, когда сотрудник не выполняет услугу
	ErrStaffServiceMismatch = errors.New("create_appointment: staff member does not perform this service")

	// ErrSlotNotAvailable возвращается, когда окно пересекается с активной записью
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
