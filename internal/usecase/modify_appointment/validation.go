package modify_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if !req.HasChanges() {
		return fmt.Errorf("%w: at least one field must be changed", ErrInvalidInput)
	}

	if req.NewDate != nil && req.NewDate.IsZero() {
		return fmt.Errorf("%w: newDate must not be zero", ErrInvalidInput)
	}

	if req.NewStartTime != nil {
		if err := req.NewStartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid newStartTime format: %v", ErrInvalidInput, err)
		}
	}

	if req.NewStaffID != nil && *req.NewStaffID <= 0 {
		return fmt.Errorf("%w: newStaffID must be positive", ErrInvalidInput)
	}

	if req.NewAddOnIDs != nil {
		if len(req.NewAddOnIDs) != len(req.NewAddOnDurationMinutes) {
			return fmt.Errorf("%w: newAddOnIDs and newAddOnDurationMinutes must have equal length", ErrInvalidInput)
		}
		for _, d := range req.NewAddOnDurationMinutes {
			if d <= 0 {
				return fmt.Errorf("%w: add-on durations must be positive", ErrInvalidInput)
			}
		}
		if req.ServiceDurationMinutes < domain.MinDurationMinutes {
			return fmt.Errorf("%w: serviceDurationMinutes is required when changing add-ons", ErrInvalidInput)
		}
	}

	if req.NewNotes != nil && len(*req.NewNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateWithinWorkingHours проверяет, что интервал [start, start+duration)
// целиком помещается в рабочие часы мастера в этот день
func validateWithinWorkingHours(schedule staffservice.DaySchedule, start types.TimeString, durationMinutes int) error {
	if !schedule.Enabled || schedule.StartTime == nil || schedule.EndTime == nil {
		return ErrOutsideWorkingHours
	}

	workStart, err := types.NewTimeStringFromString(*schedule.StartTime)
	if err != nil {
		return fmt.Errorf("%w: invalid schedule start: %v", ErrInternal, err)
	}
	workEnd, err := types.NewTimeStringFromString(*schedule.EndTime)
	if err != nil {
		return fmt.Errorf("%w: invalid schedule end: %v", ErrInternal, err)
	}

	if start.IsBefore(workStart) {
		return ErrOutsideWorkingHours
	}
	if start.Minutes()+durationMinutes > workEnd.Minutes() {
		return ErrOutsideWorkingHours
	}

	return nil
}

// findOverlapping возвращает первую активную запись, пересекающуюся с
// интервалом [start, start+duration), исключая саму переносимую запись.
// Существующие записи расширяются на bufferMinutes по заднему краю
func findOverlapping(
	appointments []*domain.Appointment,
	start types.TimeString,
	durationMinutes int,
	bufferMinutes int,
	excludeID int64,
) *domain.Appointment {
	candidateStart := start.Minutes()
	candidateEnd := candidateStart + durationMinutes

	for _, appt := range appointments {
		if appt.ID == excludeID {
			continue
		}
		if !appt.IsActive() {
			continue
		}

		existingStart := appt.StartTime.Minutes()
		existingEnd := existingStart + appt.TotalDurationMinutes + bufferMinutes

		// Полуоткрытые интервалы, строгие неравенства
		if candidateStart < existingEnd && candidateEnd > existingStart {
			return appt
		}
	}

	return nil
}
