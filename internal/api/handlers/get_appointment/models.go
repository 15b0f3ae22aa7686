package get_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                   int64   `json:"id"`
	TenantID             int64   `json:"tenantId"`
	StaffID              int64   `json:"staffId"`
	ServiceID            int64   `json:"serviceId"`
	Date                 string  `json:"date"`
	StartTime            string  `json:"startTime"`
	EndTime              string  `json:"endTime"`
	TotalDurationMinutes int     `json:"totalDurationMinutes"`
	AddOnIDs             []int64 `json:"addOnIds,omitempty"`
	Status               string  `json:"status"`
	CustomerContact      string  `json:"customerContact"`
	Notes                *string `json:"notes,omitempty"`
	CancellationReason   *string `json:"cancellationReason,omitempty"`
	CancelledAt          *string `json:"cancelledAt,omitempty"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.AppointmentResponse) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:                   resp.ID,
		TenantID:             resp.TenantID,
		StaffID:              resp.StaffID,
		ServiceID:            resp.ServiceID,
		Date:                 resp.Date.Format(domain.DateFormat),
		StartTime:            resp.StartTime.String(),
		EndTime:              resp.EndTime.String(),
		TotalDurationMinutes: resp.TotalDurationMinutes,
		AddOnIDs:             resp.AddOnIDs,
		Status:               resp.Status,
		CustomerContact:      resp.CustomerContact,
		Notes:                resp.Notes,
		CancellationReason:   resp.CancellationReason,
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.CancelledAt != nil {
		cancelledAt := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledAt
	}

	return out
}
