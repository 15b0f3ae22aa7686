package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/staffservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// buildDayGrid строит полную сетку слотов мастера на день.
//
// Кандидаты идут от начала рабочего дня до (конец - длительность) с шагом
// intervalMinutes. Каждый кандидат помечается флагом доступности, а не
// выбрасывается: клиент получает весь день и фильтрует свободные слоты сам.
//
// Для сегодняшней даты кандидаты раньше "now + lookaheadMinutes" исключаются,
// а первый кандидат округляется вверх до ближайшей границы intervalMinutes
// после этого порога
func buildDayGrid(
	schedule staffservice.DaySchedule,
	durationMinutes int,
	intervalMinutes int,
	bufferMinutes int,
	requestDate time.Time,
	now time.Time,
	lookaheadMinutes int,
	appointments []*domain.Appointment,
) ([]domain.Slot, error) {
	// Дата в прошлом - пустая сетка
	if isDateInPast(requestDate, now) {
		return []domain.Slot{}, nil
	}

	// Мастер не работает в этот день - нулевая ёмкость
	if !schedule.Enabled || schedule.StartTime == nil || schedule.EndTime == nil {
		return []domain.Slot{}, nil
	}

	workStart, err := types.NewTimeStringFromString(*schedule.StartTime)
	if err != nil {
		return nil, err
	}

	workEnd, err := types.NewTimeStringFromString(*schedule.EndTime)
	if err != nil {
		return nil, err
	}

	gridStart := workStart

	// Для сегодняшней даты сдвигаем начало сетки за порог "сейчас + lookahead"
	if isSameDay(requestDate, now) {
		cutoff, err := types.NewTimeString(now).AddMinutes(lookaheadMinutes)
		if err != nil {
			// Порог за пределами суток - сегодня уже ничего не предложить
			return []domain.Slot{}, nil
		}

		rounded, err := cutoff.RoundUpToInterval(intervalMinutes)
		if err != nil {
			return []domain.Slot{}, nil
		}

		if rounded.IsAfter(gridStart) {
			gridStart = rounded
		}
	}

	// Занятые интервалы в минутах от полуночи, каждый расширен буфером
	// по заднему краю (время на уборку места после клиента)
	busy := collectBusyIntervals(appointments, bufferMinutes)

	slots := make([]domain.Slot, 0)
	for candidate := gridStart; ; {
		candidateStart := candidate.Minutes()
		candidateEnd := candidateStart + durationMinutes

		// Слот обязан целиком помещаться в рабочие часы
		if candidateEnd > workEnd.Minutes() {
			break
		}

		slots = append(slots, domain.Slot{
			StartTime:       candidate,
			DurationMinutes: durationMinutes,
			Available:       !overlapsAny(candidateStart, candidateEnd, busy),
		})

		next, err := candidate.AddMinutes(intervalMinutes)
		if err != nil {
			break
		}
		candidate = next
	}

	return slots, nil
}

// busyInterval занятый интервал в минутах от полуночи
type busyInterval struct {
	start int
	end   int
}

// collectBusyIntervals собирает интервалы активных записей,
// расширяя каждый на bufferMinutes по заднему краю
func collectBusyIntervals(appointments []*domain.Appointment, bufferMinutes int) []busyInterval {
	busy := make([]busyInterval, 0, len(appointments))

	for _, appt := range appointments {
		// Отменённые и no-show записи слот не занимают
		if !appt.IsActive() {
			continue
		}

		start := appt.StartTime.Minutes()
		busy = append(busy, busyInterval{
			start: start,
			end:   start + appt.TotalDurationMinutes + bufferMinutes,
		})
	}

	return busy
}

// overlapsAny проверяет пересечение полуоткрытого интервала [start, end)
// с занятыми интервалами. Строгие неравенства: слот, начинающийся ровно
// в момент окончания записи, свободен
func overlapsAny(start, end int, busy []busyInterval) bool {
	for _, b := range busy {
		if start < b.end && end > b.start {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
