package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// GetStaffAppointmentsRequest запрос записей с гибкой фильтрацией
type GetStaffAppointmentsRequest struct {
	TenantID        int64      // Салон (обязательно)
	StaffID         *int64     // Фильтр по мастеру (опционально)
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включать отмененные и no-show записи
}

// ToDomainFilter конвертирует request в доменный фильтр
func (r *GetStaffAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		TenantID:        &r.TenantID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return domain.AppointmentsFilter{}, fmt.Errorf("endDate must not be before startDate")
	}

	if r.Status != nil {
		status, ok := domain.ParseAppointmentStatus(*r.Status)
		if !ok {
			return domain.AppointmentsFilter{}, fmt.Errorf("unknown status %q", *r.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	TenantID int64
	Status   string
}

// AppointmentResponse представление записи для вызывающего
type AppointmentResponse struct {
	ID                   int64
	TenantID             int64
	StaffID              int64
	ServiceID            int64
	Date                 time.Time
	StartTime            types.TimeString
	EndTime              types.TimeString
	TotalDurationMinutes int
	AddOnIDs             []int64
	Status               string
	CustomerContact      string
	Notes                *string
	CancellationReason   *string
	CancelledAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse
}

// FromDomainAppointment конвертирует доменную запись в response
func FromDomainAppointment(appt *domain.Appointment) *AppointmentResponse {
	endTime, _ := appt.EndTime()
	return &AppointmentResponse{
		ID:                   appt.ID,
		TenantID:             appt.TenantID,
		StaffID:              appt.StaffID,
		ServiceID:            appt.ServiceID,
		Date:                 appt.Date,
		StartTime:            appt.StartTime,
		EndTime:              endTime,
		TotalDurationMinutes: appt.TotalDurationMinutes,
		AddOnIDs:             appt.AddOnIDs,
		Status:               string(appt.Status),
		CustomerContact:      appt.CustomerContact,
		Notes:                appt.Notes,
		CancellationReason:   appt.CancellationReason,
		CancelledAt:          appt.CancelledAt,
		CreatedAt:            appt.CreatedAt,
		UpdatedAt:            appt.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список доменных записей в response
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	out := make([]*AppointmentResponse, 0, len(appts))
	for _, appt := range appts {
		out = append(out, FromDomainAppointment(appt))
	}
	return &AppointmentListResponse{Appointments: out}
}
