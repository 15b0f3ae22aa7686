package respond_waitlist

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/waitlist"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/waitlist/respond
//
// Эндпоинт публичный: клиент отвечает на уведомление по ссылке или SMS,
// заголовка салона у него нет. Отсутствие действующего предложения
// отдается как found=false со статусом 200: поздние ответы ожидаемы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RespondWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist/respond - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.HandleResponse(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist/respond - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /waitlist/respond - Failed to handle response: contact=%s, error=%v",
				req.CustomerContact, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist/respond - Response handled: contact=%s, found=%v, outcome=%s",
		req.CustomerContact, result.Found, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResult(result))
}
