package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json: %v", domain.ErrValidation, err)
	}
	return nil
}

// userQuery resolves the acting user from the user query parameter.
func userQuery(r *http.Request) (domain.UserIdentity, error) {
	return domain.ParseUser(r.URL.Query().Get("user"))
}

// dayQuery resolves an optional day parameter, defaulting to today.
func dayQuery(r *http.Request) (domain.DateKey, error) {
	v := r.URL.Query().Get("day")
	if v == "" {
		return domain.Today(), nil
	}
	return domain.ParseDateKey(v)
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
