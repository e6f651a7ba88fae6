package adapthttp

import (
	"net/http"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

func (s *Server) handleWeight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := userQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		series, err := s.weight.SeriesFor(ctx, user)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user":    user,
			"samples": series.Samples(),
			"current": series.Current(),
		})

	case http.MethodPut:
		var body struct {
			Date   domain.DateKey `json:"date"`
			Weight float64        `json:"weight"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		if body.Date == "" {
			body.Date = domain.Today()
		}
		series, balance, err := s.weight.Record(ctx, user, body.Date, body.Weight)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user":    user,
			"samples": series.Samples(),
			"current": series.Current(),
			"points":  balance,
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleWeightMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, err := userQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	day, err := dayQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	samples, err := s.weight.Month(r.Context(), user, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "samples": samples})
}
