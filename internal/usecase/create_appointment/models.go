package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID               int64            // ID салона
	StaffID                int64            // ID мастера
	ServiceID              int64            // ID услуги
	Date                   time.Time        // Дата записи (без времени)
	StartTime              types.TimeString // Время начала (например, "10:00")
	ServiceDurationMinutes int              // Длительность базовой услуги
	AddOnIDs               []int64          // Дополнительные услуги (опционально)
	AddOnDurationMinutes   []int            // Длительности доп. услуг, по позициям AddOnIDs
	CustomerContact        string           // Контакт клиента (телефон)
	Notes                  *string          // Заметки (опционально)
}

// TotalDurationMinutes суммарная длительность: услуга плюс все доп. услуги
func (r *Request) TotalDurationMinutes() int {
	total := r.ServiceDurationMinutes
	for _, d := range r.AddOnDurationMinutes {
		total += d
	}
	return total
}

// Response модель ответа с созданной записью
type Response struct {
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
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FromDomain конвертирует доменную запись в response
func FromDomain(appt *domain.Appointment) *Response {
	endTime, _ := appt.EndTime()
	return &Response{
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
		CreatedAt:            appt.CreatedAt,
		UpdatedAt:            appt.UpdatedAt,
	}
}
