package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.ServiceDurationMinutes < domain.MinDurationMinutes {
		return fmt.Errorf("%w: serviceDurationMinutes must be at least %d", ErrInvalidInput, domain.MinDurationMinutes)
	}

	if len(req.AddOnIDs) != len(req.AddOnDurationMinutes) {
		return fmt.Errorf("%w: addOnIDs and addOnDurationMinutes must have equal length", ErrInvalidInput)
	}
	for _, d := range req.AddOnDurationMinutes {
		if d <= 0 {
			return fmt.Errorf("%w: add-on durations must be positive", ErrInvalidInput)
		}
	}

	if req.TotalDurationMinutes() > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: total duration must not exceed %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if req.CustomerContact == "" {
		return fmt.Errorf("%w: customerContact is required", ErrInvalidInput)
	}
	if len(req.CustomerContact) > domain.MaxCustomerContactLength {
		return fmt.Errorf("%w: customerContact is too long", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
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
// интервалом [start, start+duration). Каждая существующая запись расширяется
// на bufferMinutes по заднему краю - тот же предикат, что и у сетки слотов.
// excludeID исключает саму переносимую запись из проверки
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
		// Отменённые и no-show записи интервал не занимают
		if !appt.IsActive() {
			continue
		}

		existingStart := appt.StartTime.Minutes()
		existingEnd := existingStart + appt.TotalDurationMinutes + bufferMinutes

		// Полуоткрытые интервалы, строгие неравенства: граничащие записи не пересекаются
		if candidateStart < existingEnd && candidateEnd > existingStart {
			return appt
		}
	}

	return nil
}
