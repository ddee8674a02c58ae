// Package middleware HTTP middleware: авторизация операторских ручек и метрики
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/chillthrive/CT-BookingService/internal/api/handlers"
)

// AdminTokenHeader заголовок с операторским токеном
const AdminTokenHeader = "X-Admin-Token"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AdminAuth проверяет операторский токен на админских ручках.
// Сравнение токенов константное по времени
func AdminAuth(token string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if got == "" {
				logger.Warn("AdminAuth: missing token for %s %s", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, "missing admin token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				logger.Warn("AdminAuth: invalid token for %s %s", r.Method, r.URL.Path)
				handlers.RespondForbidden(w, "invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
