package update_tenant_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

const (
	msgMissingTenantID    = "отсутствует ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные политики"
	msgPolicyNotFound     = "политика не найдена"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/policy
// Обновляет политику планирования салона (частичное обновление)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PUT /policy - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req models.UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), tenantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /policy - Validation failed: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /policy - Failed to update policy: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /policy - Policy updated successfully: tenant_id=%d, interval=%d, buffer=%d, lookahead=%d",
		tenantID, result.IntervalMinutes, result.BufferMinutes, result.LookaheadMinutes)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleReset DELETE /api/v1/policy
// Сбрасывает политику салона к значениям по умолчанию
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /policy - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	if err := h.service.Reset(r.Context(), tenantID); err != nil {
		switch {
		case errors.Is(err, policy.ErrPolicyNotFound):
			h.logger.Warn("DELETE /policy - Policy not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgPolicyNotFound)

		default:
			h.logger.Error("DELETE /policy - Failed to reset policy: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /policy - Policy reset successfully: tenant_id=%d", tenantID)
	w.WriteHeader(http.StatusNoContent)
}
