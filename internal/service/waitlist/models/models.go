package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// EnqueueRequest запрос на постановку клиента в лист ожидания
type EnqueueRequest struct {
	TenantID               int64
	CustomerContact        string
	ServiceDurationMinutes int
}

// RespondRequest ответ клиента на предложение освободившегося слота
type RespondRequest struct {
	CustomerContact string
	Accepted        bool
}

// EntryResponse представление записи листа ожидания для вызывающего
type EntryResponse struct {
	ID                     int64
	TenantID               int64
	CustomerContact        string
	ServiceDurationMinutes int
	Status                 string
	CreatedAt              time.Time
	NotifiedAt             *time.Time
	NotifiedSlotStart      *time.Time
	NotifiedStaffID        *int64
	ResponseDeadline       *time.Time
}

// RespondResult исход обработки ответа клиента.
// Found=false означает, что действующего предложения для контакта нет:
// поздние и повторные ответы - ожидаемый трафик, а не ошибка
type RespondResult struct {
	Found   bool
	Outcome string // booked | declined
	Entry   *EntryResponse
}

// Исходы предложений для метрик и ответов API
const (
	OutcomeBooked   = "booked"
	OutcomeDeclined = "declined"
	OutcomeLapsed   = "lapsed"
)

// FromDomainEntry конвертирует доменную запись листа ожидания в response
func FromDomainEntry(entry *domain.WaitlistEntry) *EntryResponse {
	return &EntryResponse{
		ID:                     entry.ID,
		TenantID:               entry.TenantID,
		CustomerContact:        entry.CustomerContact,
		ServiceDurationMinutes: entry.ServiceDurationMinutes,
		Status:                 string(entry.Status),
		CreatedAt:              entry.CreatedAt,
		NotifiedAt:             entry.NotifiedAt,
		NotifiedSlotStart:      entry.NotifiedSlotStart,
		NotifiedStaffID:        entry.NotifiedStaffID,
		ResponseDeadline:       entry.ResponseDeadline,
	}
}
