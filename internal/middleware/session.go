package middleware

import (
	"log"
	"net/http"
	"strings"

	"teradrive/internal/service"
)

// Session пропускает запрос только при предъявлении действующего
// токена сессии. Само наличие сохранённого токена и есть факт сессии.
func Session(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				// SSE и websocket не могут выставить заголовок
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ok, err := authService.VerifyToken(r.Context(), token)
			if err != nil {
				log.Printf("Failed to verify session token: %v", err)
				http.Error(w, "Failed to verify session", http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
