package domain

// Default configuration values
const (
	DefaultSlotStepMinutes = 30
	DefaultTimezone        = "UTC"
)

// Business validation constants
const (
	MinServiceDurationMinutes = 1
	MaxServiceDurationMinutes = 480 // 8 hours
	MinBufferMinutes          = 0
	MaxBufferMinutes          = 240
	MaxNotesLength            = 500
	MaxCancellationReason     = 500
	MaxCustomerNameLength     = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, которые освобождают слот
// Используется при подсчёте пересечений с существующими записями
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, которые занимают слот
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
