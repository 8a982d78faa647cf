package get_available_slots

import "errors"

var (
	// ErrLocationNotFound возвращается, когда локация не найдена
	ErrLocationNotFound = errors.New("get_available_slots: location not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("get_available_slots: staff member not found")

	// ErrServiceNotAtLocation возвращается, когда услуга не предлагается на локации
	ErrServiceNotAtLocation = errors.New("get_available_slots: service is not offered at this location")

	// ErrStaffServiceMismatch возвращается, когда сотрудник не выполняет услугу
	ErrStaffServiceMismatch = errors.New("get_available_slots: staff member does not perform this service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
