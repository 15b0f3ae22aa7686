package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на построение сетки слотов на один день
type Request struct {
	StaffID         int64     // ID мастера (ресурса)
	Date            time.Time // Дата, на которую строится сетка (без времени)
	DurationMinutes int       // Требуемая длительность услуги
	IntervalMinutes int       // Шаг кандидатов, 0 = значение политики по умолчанию
	BufferMinutes   int       // Буфер после каждой существующей записи
}

// RangeRequest модель запроса на построение сетки слотов за период
type RangeRequest struct {
	StaffID         int64
	DateFrom        time.Time
	DateTo          time.Time
	DurationMinutes int
	IntervalMinutes int
	BufferMinutes   int
}

// Response модель ответа с полной сеткой слотов на день
// Сетка включает и свободные, и занятые слоты: клиент может отрисовать
// весь день без повторных запросов
type Response struct {
	StaffID int64
	Date    time.Time
	Slots   []domain.Slot
}

// RangeResponse сетка слотов по дням периода
type RangeResponse struct {
	StaffID int64
	Days    []Response // По одному элементу на каждый день периода, по возрастанию даты
}
