package respond_waitlist

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/waitlist/models"
)

// RespondWaitlistRequest HTTP request model
type RespondWaitlistRequest struct {
	CustomerContact string `json:"customerContact"`
	Accepted        bool   `json:"accepted"`
}

// RespondWaitlistResponse HTTP response model.
// Found=false означает, что предложения для контакта уже нет
type RespondWaitlistResponse struct {
	Found             bool    `json:"found"`
	Outcome           string  `json:"outcome,omitempty"`
	EntryID           *int64  `json:"entryId,omitempty"`
	NotifiedSlotStart *string `json:"notifiedSlotStart,omitempty"`
	NotifiedStaffID   *int64  `json:"notifiedStaffId,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RespondWaitlistRequest) ToServiceRequest() *models.RespondRequest {
	return &models.RespondRequest{
		CustomerContact: r.CustomerContact,
		Accepted:        r.Accepted,
	}
}

// FromServiceResult конвертирует результат сервиса в HTTP response
func FromServiceResult(result *models.RespondResult) *RespondWaitlistResponse {
	out := &RespondWaitlistResponse{
		Found:   result.Found,
		Outcome: result.Outcome,
	}

	if result.Entry != nil {
		out.EntryID = &result.Entry.ID
		out.NotifiedStaffID = result.Entry.NotifiedStaffID
		if result.Entry.NotifiedSlotStart != nil {
			slotStart := result.Entry.NotifiedSlotStart.Format(time.RFC3339)
			out.NotifiedSlotStart = &slotStart
		}
	}

	return out
}
