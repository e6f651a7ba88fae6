package adapthttp

import (
	"net/http"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

func (s *Server) handleGoalSummary(w http.ResponseWriter, r *http.Request) {
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
	summary, err := s.goals.Summary(r.Context(), user, day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleFinalGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, err := userQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		Target float64 `json:"target"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := s.goals.SaveFinalGoal(r.Context(), user, body.Target); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "target": body.Target})
}

func (s *Server) handlePeriodGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, err := userQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		Start  domain.DateKey `json:"start"`
		End    domain.DateKey `json:"end"`
		Target *float64       `json:"target"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	goal := domain.PeriodGoal{User: user, Start: body.Start, End: body.End, Target: body.Target}
	active, err := s.goals.SavePeriodGoal(r.Context(), goal, domain.Today())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": active})
}
