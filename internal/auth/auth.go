// Package auth защищает HTTP API отчётов статическим токеном.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerToken пропускает запрос только с заголовком "Authorization: Bearer <token>".
// Пустой token отключает проверку.
func BearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorized(r, token) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="shepherd"`)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Authorized проверяет токен запроса.
func Authorized(r *http.Request, token string) bool {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return false
	}

	got := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}
