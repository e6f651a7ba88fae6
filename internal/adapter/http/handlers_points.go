package adapthttp

import "net/http"

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, err := userQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Refresh returns the last known local balance even when the store
	// read fails, so the response degrades instead of erroring.
	balance, err := s.ledger.Refresh(r.Context(), user)
	if err != nil {
		s.log.WithError(err).WithField("user", user).Warn("points refresh failed, serving local balance")
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "points": balance})
}
