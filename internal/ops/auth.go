package ops

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// requireSchedulerToken rejects requests without a valid HS256 bearer token
// signed with the scheduler key.
func (s *server) requireSchedulerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.schedulerKey) == 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "scheduler key not configured",
			})
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "missing bearer token",
			})
			return
		}

		if err := s.validateSchedulerToken(token); err != nil {
			s.logger.Warn().Err(err).Msg("scheduler token rejected")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "invalid bearer token",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) validateSchedulerToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.schedulerKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return fmt.Errorf("parsing scheduler token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("scheduler token invalid")
	}
	return nil
}
