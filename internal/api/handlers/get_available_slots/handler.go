package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStaffID  = "некорректный ID мастера"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDateTo   = "некорректный формат конечной даты, ожидается YYYY-MM-DD"
	msgMissingDuration = "длительность услуги обязательна"
	msgInvalidDuration = "некорректная длительность услуги"
	msgInvalidInterval = "некорректный шаг сетки слотов"
	msgInvalidBuffer   = "некорректный буфер между записями"
	msgStaffNotFound   = "мастер не найден"
	msgInvalidInput    = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/slots
// Query params: date (required, YYYY-MM-DD), durationMinutes (required),
// dateTo, intervalMinutes, bufferMinutes (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffIDStr := vars["staffId"]

	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /staff/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	durationStr := query.Get("durationMinutes")
	if durationStr == "" {
		h.logger.Warn("GET /staff/{id}/slots - Missing duration")
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	durationMinutes, err := strconv.Atoi(durationStr)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	intervalMinutes := 0
	if intervalStr := query.Get("intervalMinutes"); intervalStr != "" {
		intervalMinutes, err = strconv.Atoi(intervalStr)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/slots - Invalid interval: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInterval)
			return
		}
	}

	bufferMinutes := 0
	if bufferStr := query.Get("bufferMinutes"); bufferStr != "" {
		bufferMinutes, err = strconv.Atoi(bufferStr)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/slots - Invalid buffer: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBuffer)
			return
		}
	}

	// Диапазон дат запрашивается опциональным параметром dateTo
	var response *SlotsResponse
	if dateToStr := query.Get("dateTo"); dateToStr != "" {
		dateTo, err := time.Parse(domain.DateFormat, dateToStr)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/slots - Invalid dateTo: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateTo)
			return
		}

		result, err := h.useCase.ExecuteRange(r.Context(), &getAvailableSlots.RangeRequest{
			StaffID:         staffID,
			DateFrom:        date,
			DateTo:          dateTo,
			DurationMinutes: durationMinutes,
			IntervalMinutes: intervalMinutes,
			BufferMinutes:   bufferMinutes,
		})
		if err != nil {
			h.respondUseCaseError(w, staffID, err)
			return
		}
		response = FromUseCaseRangeResponse(result)
	} else {
		result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
			StaffID:         staffID,
			Date:            date,
			DurationMinutes: durationMinutes,
			IntervalMinutes: intervalMinutes,
			BufferMinutes:   bufferMinutes,
		})
		if err != nil {
			h.respondUseCaseError(w, staffID, err)
			return
		}
		response = FromUseCaseResponse(result)
	}

	h.logger.Info("GET /staff/{id}/slots - Slots retrieved successfully: staff_id=%d, days=%d",
		staffID, len(response.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) respondUseCaseError(w http.ResponseWriter, staffID int64, err error) {
	switch {
	case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
		h.logger.Warn("GET /staff/{id}/slots - Staff not found: staff_id=%d", staffID)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, getAvailableSlots.ErrInvalidInput):
		h.logger.Warn("GET /staff/{id}/slots - Invalid input: staff_id=%d, error=%v", staffID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("GET /staff/{id}/slots - Failed to get slots: staff_id=%d, error=%v", staffID, err)
		handlers.RespondInternalError(w)
	}
}
