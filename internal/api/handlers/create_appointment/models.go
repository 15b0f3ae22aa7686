package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	StaffID                int64   `json:"staffId"`
	ServiceID              int64   `json:"serviceId"`
	Date                   string  `json:"date"`      // "2025-10-15"
	StartTime              string  `json:"startTime"` // "10:00"
	ServiceDurationMinutes int     `json:"serviceDurationMinutes"`
	AddOnIDs               []int64 `json:"addOnIds,omitempty"`
	AddOnDurationMinutes   []int   `json:"addOnDurationMinutes,omitempty"`
	CustomerContact        string  `json:"customerContact"`
	Notes                  *string `json:"notes,omitempty"`
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
func (r *CreateAppointmentRequest) ToUseCaseRequest(tenantID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		TenantID:               tenantID,
		StaffID:                r.StaffID,
		ServiceID:              r.ServiceID,
		Date:                   date,
		StartTime:              startTime,
		ServiceDurationMinutes: r.ServiceDurationMinutes,
		AddOnIDs:               r.AddOnIDs,
		AddOnDurationMinutes:   r.AddOnDurationMinutes,
		CustomerContact:        r.CustomerContact,
		Notes:                  r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
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
