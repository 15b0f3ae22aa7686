package modify_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	modifyAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/modify_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ModifyAppointmentRequest HTTP request model.
// Непереданные поля остаются без изменений
type ModifyAppointmentRequest struct {
	NewDate      *string `json:"newDate,omitempty"`      // "2025-10-15"
	NewStartTime *string `json:"newStartTime,omitempty"` // "10:00"
	NewStaffID   *int64  `json:"newStaffId,omitempty"`

	NewAddOnIDs             []int64 `json:"newAddOnIds,omitempty"`
	NewAddOnDurationMinutes []int   `json:"newAddOnDurationMinutes,omitempty"`
	ServiceDurationMinutes  int     `json:"serviceDurationMinutes,omitempty"`

	NewNotes *string `json:"newNotes,omitempty"`
}

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
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ModifyAppointmentRequest) ToUseCaseRequest(appointmentID, tenantID int64) (*modifyAppointment.Request, error) {
	req := &modifyAppointment.Request{
		AppointmentID:           appointmentID,
		TenantID:                tenantID,
		NewStaffID:              r.NewStaffID,
		NewAddOnIDs:             r.NewAddOnIDs,
		NewAddOnDurationMinutes: r.NewAddOnDurationMinutes,
		ServiceDurationMinutes:  r.ServiceDurationMinutes,
		NewNotes:                r.NewNotes,
	}

	if r.NewDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.NewDate)
		if err != nil {
			return nil, err
		}
		req.NewDate = &date
	}

	if r.NewStartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.NewStartTime)
		if err != nil {
			return nil, err
		}
		req.NewStartTime = &startTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *modifyAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
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
		CreatedAt:            resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            resp.UpdatedAt.Format(time.RFC3339),
	}
}
