package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда запись принадлежит другому тенанту
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrCannotReschedule возвращается, когда статус записи не допускает перенос
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrSlotNotAvailable возвращается, когда новое окно пересекается с активной записью
	ErrSlotNotAvailable = errors.New("reschedule_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
