package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// Slot represents one candidate interval in a staff member's day grid.
// Slots are derived from working hours and existing appointments and are
// never persisted.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}

// End returns the exclusive end of the slot interval
func (s *Slot) End() (types.TimeString, error) {
	return s.StartTime.AddMinutes(s.DurationMinutes)
}
