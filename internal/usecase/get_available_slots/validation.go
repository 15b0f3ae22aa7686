package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must not exceed %d", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if req.IntervalMinutes < 0 || req.IntervalMinutes > domain.MaxIntervalMinutes {
		return fmt.Errorf("%w: intervalMinutes out of range", ErrInvalidInput)
	}

	if req.BufferMinutes < 0 || req.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes out of range", ErrInvalidInput)
	}

	return nil
}

// maxRangeDays ограничивает длину периода: каждый день периода - это
// отдельный поход за расписанием мастера
const maxRangeDays = 31

// validateRangeRequest валидирует запрос на период
func validateRangeRequest(req *RangeRequest) error {
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}
	if req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo must not be before dateFrom", ErrInvalidInput)
	}
	if req.DateTo.After(req.DateFrom.AddDate(0, 0, maxRangeDays-1)) {
		return fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, maxRangeDays)
	}
	return nil
}
