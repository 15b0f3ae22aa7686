package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type contextKey string

const (
	tenantIDKey contextKey = "tenantID"

	// HeaderTenantID заголовок с ID салона, проставляется API gateway
	HeaderTenantID = "X-Tenant-ID"

	msgMissingTenantID = "отсутствует заголовок X-Tenant-ID"
	msgInvalidTenantID = "некорректный ID салона"
)

// Auth проверяет наличие и корректность заголовка X-Tenant-ID
// и кладет ID салона в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantIDStr := r.Header.Get(HeaderTenantID)
		if tenantIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingTenantID)
			return
		}

		tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidTenantID)
			return
		}

		ctx := context.WithValue(r.Context(), tenantIDKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID извлекает ID салона из контекста запроса
func GetTenantID(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	return tenantID, ok
}
