package modify_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	modifyAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/modify_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingTenantID      = "отсутствует ID салона"
	msgNotFound             = "запись не найдена"
	msgNotModifiable        = "запись нельзя изменить в текущем статусе"
	msgStaffNotFound        = "мастер не найден"
	msgStaffNotInTenant     = "мастер не принадлежит салону"
	msgOutsideWorkingHours  = "выбранное время вне рабочих часов мастера"
	msgSlotConflict         = "выбранный временной слот уже занят"
	msgInvalidInput         = "некорректные данные запроса"
)

type Handler struct {
	useCase ModifyAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ModifyAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id} - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req ModifyAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID, tenantID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, modifyAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, modifyAppointment.ErrNotModifiable):
			h.logger.Warn("PATCH /appointments/{id} - Not modifiable: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNotModifiable)

		case errors.Is(err, modifyAppointment.ErrStaffNotFound):
			h.logger.Warn("PATCH /appointments/{id} - Staff not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, modifyAppointment.ErrStaffNotInTenant):
			h.logger.Warn("PATCH /appointments/{id} - Staff not in tenant: appointment_id=%d, tenant_id=%d",
				appointmentID, tenantID)
			handlers.RespondForbidden(w, msgStaffNotInTenant)

		case errors.Is(err, modifyAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("PATCH /appointments/{id} - Outside working hours: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, modifyAppointment.ErrSlotConflict):
			h.logger.Warn("PATCH /appointments/{id} - Slot conflict: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, modifyAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to modify appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment modified successfully: appointment_id=%d, tenant_id=%d",
		appointmentID, tenantID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
