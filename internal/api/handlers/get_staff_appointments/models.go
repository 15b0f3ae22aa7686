package get_staff_appointments

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
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

// AppointmentListResponse HTTP response model списка записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.AppointmentListResponse) *AppointmentListResponse {
	out := &AppointmentListResponse{
		Appointments: make([]*AppointmentResponse, 0, len(resp.Appointments)),
	}

	for _, appt := range resp.Appointments {
		out.Appointments = append(out.Appointments, &AppointmentResponse{
			ID:                   appt.ID,
			TenantID:             appt.TenantID,
			StaffID:              appt.StaffID,
			ServiceID:            appt.ServiceID,
			Date:                 appt.Date.Format(domain.DateFormat),
			StartTime:            appt.StartTime.String(),
			EndTime:              appt.EndTime.String(),
			TotalDurationMinutes: appt.TotalDurationMinutes,
			AddOnIDs:             appt.AddOnIDs,
			Status:               appt.Status,
			CustomerContact:      appt.CustomerContact,
			Notes:                appt.Notes,
			CreatedAt:            appt.CreatedAt.Format(time.RFC3339),
			UpdatedAt:            appt.UpdatedAt.Format(time.RFC3339),
		})
	}

	return out
}
