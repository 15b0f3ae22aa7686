package join_waitlist

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/waitlist/models"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	CustomerContact        string `json:"customerContact"`
	ServiceDurationMinutes int    `json:"serviceDurationMinutes"`
}

// WaitlistEntryResponse HTTP response model
type WaitlistEntryResponse struct {
	ID                     int64   `json:"id"`
	TenantID               int64   `json:"tenantId"`
	CustomerContact        string  `json:"customerContact"`
	ServiceDurationMinutes int     `json:"serviceDurationMinutes"`
	Status                 string  `json:"status"`
	CreatedAt              string  `json:"createdAt"`
	NotifiedSlotStart      *string `json:"notifiedSlotStart,omitempty"`
	ResponseDeadline       *string `json:"responseDeadline,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *JoinWaitlistRequest) ToServiceRequest(tenantID int64) *models.EnqueueRequest {
	return &models.EnqueueRequest{
		TenantID:               tenantID,
		CustomerContact:        r.CustomerContact,
		ServiceDurationMinutes: r.ServiceDurationMinutes,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.EntryResponse) *WaitlistEntryResponse {
	out := &WaitlistEntryResponse{
		ID:                     resp.ID,
		TenantID:               resp.TenantID,
		CustomerContact:        resp.CustomerContact,
		ServiceDurationMinutes: resp.ServiceDurationMinutes,
		Status:                 resp.Status,
		CreatedAt:              resp.CreatedAt.Format(time.RFC3339),
	}

	if resp.NotifiedSlotStart != nil {
		slotStart := resp.NotifiedSlotStart.Format(time.RFC3339)
		out.NotifiedSlotStart = &slotStart
	}
	if resp.ResponseDeadline != nil {
		deadline := resp.ResponseDeadline.Format(time.RFC3339)
		out.ResponseDeadline = &deadline
	}

	return out
}
