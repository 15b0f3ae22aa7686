package cancel_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на отмену записи
type Request struct {
	AppointmentID int64  // ID записи
	TenantID      int64  // ID салона (проверка принадлежности)
	Reason        string // Причина отмены
}

// Validate валидирует входные данные запроса
func (r *Request) Validate() error {
	if r.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if r.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if r.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(r.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}

// Response модель ответа с отмененной записью
type Response struct {
	ID                 int64
	TenantID           int64
	StaffID            int64
	Date               time.Time
	StartTime          types.TimeString
	Status             string
	CancellationReason *string
	CancelledAt        *time.Time
}

// FromDomain конвертирует доменную запись в response
func FromDomain(appt *domain.Appointment) *Response {
	return &Response{
		ID:                 appt.ID,
		TenantID:           appt.TenantID,
		StaffID:            appt.StaffID,
		Date:               appt.Date,
		StartTime:          appt.StartTime,
		Status:             string(appt.Status),
		CancellationReason: appt.CancellationReason,
		CancelledAt:        appt.CancelledAt,
	}
}
