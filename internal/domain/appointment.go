package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// ParseAppointmentStatus validates a raw status string
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

// Appointment represents a booked time interval for a staff member
type Appointment struct {
	ID        int64
	TenantID  int64
	StaffID   int64
	ServiceID int64

	Date                 time.Time        // Appointment date, time part is zero
	StartTime            types.TimeString // "HH:MM" local time
	TotalDurationMinutes int              // Service duration plus add-ons
	AddOnIDs             []int64

	Status          AppointmentStatus
	CustomerContact string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the exclusive end of the appointment interval.
// Invariant: end == start + total duration.
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.TotalDurationMinutes)
}

// IsActive returns true if the appointment still occupies its slot.
// Cancelled and no-show appointments free the interval.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// CanBeModified returns true if the appointment may be rescheduled
func (a *Appointment) CanBeModified() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanBeCancelled returns true if the appointment may be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// IsTerminal returns true if no further transition is defined for the status
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanTransitionTo validates a status transition.
// Normal path: scheduled → confirmed → in_progress → completed; confirmed and
// in_progress are optional waypoints. scheduled and confirmed may also go to
// cancelled or no_show. Terminal statuses have no outgoing transitions.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusScheduled:
		return next == StatusConfirmed || next == StatusInProgress || next == StatusCompleted ||
			next == StatusCancelled || next == StatusNoShow
	case StatusConfirmed:
		return next == StatusInProgress || next == StatusCompleted ||
			next == StatusCancelled || next == StatusNoShow
	case StatusInProgress:
		return next == StatusCompleted
	default:
		return false
	}
}

// AppointmentsFilter фильтр для выборки записей
// Используется и публичным query-эндпоинтом, и admission check'ом
// (мастер + конкретная дата внутри транзакции)
type AppointmentsFilter struct {
	TenantID        *int64             // Фильтр по салону (опционально)
	StaffID         *int64             // Фильтр по мастеру (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые и no-show записи
}
