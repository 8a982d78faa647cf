package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type contextKey string

const tenantIDKey contextKey = "tenantID"

const (
	headerTenantID   = "X-Tenant-ID"
	msgMissingTenant = "отсутствует заголовок X-Tenant-ID"
	msgInvalidTenant = "некорректный X-Tenant-ID"
)

// Auth проверяет наличие заголовка X-Tenant-ID и кладёт ID тенанта
// в контекст запроса. Аутентификация самого заголовка - забота
// вышестоящего API gateway.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(headerTenantID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingTenant)
			return
		}

		tenantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidTenant)
			return
		}

		ctx := context.WithValue(r.Context(), tenantIDKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID возвращает ID тенанта из контекста запроса
func GetTenantID(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	return tenantID, ok
}
