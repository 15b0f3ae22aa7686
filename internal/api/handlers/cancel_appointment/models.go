package cancel_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	cancelAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelledAppointmentResponse HTTP response model
type CancelledAppointmentResponse struct {
	ID                 int64   `json:"id"`
	TenantID           int64   `json:"tenantId"`
	StaffID            int64   `json:"staffId"`
	Date               string  `json:"date"`
	StartTime          string  `json:"startTime"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelAppointmentRequest) ToUseCaseRequest(appointmentID, tenantID int64) *cancelAppointment.Request {
	return &cancelAppointment.Request{
		AppointmentID: appointmentID,
		TenantID:      tenantID,
		Reason:        r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelledAppointmentResponse {
	out := &CancelledAppointmentResponse{
		ID:                 resp.ID,
		TenantID:           resp.TenantID,
		StaffID:            resp.StaffID,
		Date:               resp.Date.Format(domain.DateFormat),
		StartTime:          resp.StartTime.String(),
		Status:             resp.Status,
		CancellationReason: resp.CancellationReason,
	}

	if resp.CancelledAt != nil {
		cancelledAt := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledAt
	}

	return out
}
