package update_status

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AppointmentStatusResponse HTTP response model
type AppointmentStatusResponse struct {
	ID        int64  `json:"id"`
	TenantID  int64  `json:"tenantId"`
	StaffID   int64  `json:"staffId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(tenantID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		TenantID: tenantID,
		Status:   r.Status,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.AppointmentResponse) *AppointmentStatusResponse {
	return &AppointmentStatusResponse{
		ID:        resp.ID,
		TenantID:  resp.TenantID,
		StaffID:   resp.StaffID,
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		Status:    resp.Status,
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
