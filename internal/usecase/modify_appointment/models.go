package modify_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на изменение записи.
// Все поля кроме идентификаторов опциональны: nil означает "оставить как есть"
type Request struct {
	AppointmentID int64 // ID записи
	TenantID      int64 // ID салона (проверка принадлежности)

	NewDate      *time.Time        // Новая дата (опционально)
	NewStartTime *types.TimeString // Новое время начала (опционально)
	NewStaffID   *int64            // Новый мастер (опционально)

	// Новый набор доп. услуг. Оба слайса задаются вместе:
	// nil - не менять, пустые слайсы - убрать все доп. услуги
	NewAddOnIDs             []int64
	NewAddOnDurationMinutes []int

	NewNotes *string // Новые заметки (опционально)

	// Длительность базовой услуги текущей записи, нужна для пересчета
	// суммарной длительности при смене набора доп. услуг
	ServiceDurationMinutes int
}

// HasChanges сообщает, меняет ли запрос хоть что-нибудь
func (r *Request) HasChanges() bool {
	return r.NewDate != nil ||
		r.NewStartTime != nil ||
		r.NewStaffID != nil ||
		r.NewAddOnIDs != nil ||
		r.NewNotes != nil
}

// Response модель ответа с измененной записью
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
