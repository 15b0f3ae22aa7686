package domain

// Default scheduling policy values
const (
	DefaultSlotIntervalMinutes = 15 // Step between candidate slot starts
	DefaultBufferMinutes       = 0  // Trailing buffer after each appointment
	DefaultLookaheadMinutes    = 15 // Same-day bookings must start at least this far ahead
)

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 hours

	MinIntervalMinutes = 5
	MaxIntervalMinutes = 240

	MaxBufferMinutes = 120

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerContactLength    = 64
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот
// Используется при подсчёте пересечений и доступных слотов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список статусов, занимающих слот
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
