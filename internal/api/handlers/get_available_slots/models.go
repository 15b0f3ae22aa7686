package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse один слот сетки дня
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	IsAvailable     bool   `json:"isAvailable"`
}

// DaySlotsResponse сетка слотов на один день
type DaySlotsResponse struct {
	Date  string          `json:"date"`
	Slots []*SlotResponse `json:"slots"`
}

// SlotsResponse HTTP response model сетки слотов
type SlotsResponse struct {
	StaffID int64               `json:"staffId"`
	Days    []*DaySlotsResponse `json:"days"`
}

func fromDomainSlots(slots []domain.Slot) []*SlotResponse {
	out := make([]*SlotResponse, 0, len(slots))
	for _, slot := range slots {
		end, _ := slot.End()
		out = append(out, &SlotResponse{
			StartTime:       slot.StartTime.String(),
			EndTime:         end.String(),
			DurationMinutes: slot.DurationMinutes,
			IsAvailable:     slot.Available,
		})
	}
	return out
}

// FromUseCaseResponse конвертирует однодневный ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	return &SlotsResponse{
		StaffID: resp.StaffID,
		Days: []*DaySlotsResponse{
			{
				Date:  resp.Date.Format(domain.DateFormat),
				Slots: fromDomainSlots(resp.Slots),
			},
		},
	}
}

// FromUseCaseRangeResponse конвертирует ответ use case за период в HTTP response
func FromUseCaseRangeResponse(resp *getAvailableSlots.RangeResponse) *SlotsResponse {
	out := &SlotsResponse{
		StaffID: resp.StaffID,
		Days:    make([]*DaySlotsResponse, 0, len(resp.Days)),
	}

	for _, day := range resp.Days {
		out.Days = append(out.Days, &DaySlotsResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: fromDomainSlots(day.Slots),
		})
	}

	return out
}
