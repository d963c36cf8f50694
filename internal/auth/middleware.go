package auth

import (
	"encoding/json"
	"net/http"

	"github.com/micro-nova/msiec-go/internal/models"
)

const (
	apiKeyHeader     = "X-Api-Key"
	apiKeyQueryParam = "api-key"
)

// Middleware enforces an access key on requests that change state. Reads
// pass through, as does everything in open mode. The key is taken from the
// X-Api-Key header or the api-key query parameter.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if s.IsOpenMode() {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(apiKeyHeader)
		if key == "" {
			key = r.URL.Query().Get(apiKeyQueryParam)
		}
		if s.VerifyKey(key) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(models.ErrUnauthorized.Status)
		_ = json.NewEncoder(w).Encode(models.ErrUnauthorized)
	})
}
