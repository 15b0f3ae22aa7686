package get_tenant_policy

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgMissingTenantID = "отсутствует ID салона"
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

// Handle GET /api/v1/policy
// Возвращает действующую политику планирования салона
// Если политика не настроена, возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("GET /policy - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	result, err := h.service.GetEffective(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("GET /policy - Failed to get policy: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /policy - Policy retrieved successfully: tenant_id=%d, is_default=%t",
		tenantID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
