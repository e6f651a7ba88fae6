package adapthttp

import (
	"net/http"

	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

func (s *Server) handleWishes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		if err := s.wishes.Refresh(ctx); err != nil {
			s.log.WithError(err).Warn("wish refresh failed, serving local items")
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": s.wishes.Items()})

	case http.MethodPost:
		user, err := userQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var item domain.WishItem
		if err := parseJSON(r, &item); err != nil {
			writeError(w, err)
			return
		}
		created, err := s.wishes.Create(ctx, user, item)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case http.MethodPut:
		user, err := userQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		var item domain.WishItem
		if err := parseJSON(r, &item); err != nil {
			writeError(w, err)
			return
		}
		updated, err := s.wishes.Update(ctx, user, item)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		user, err := userQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		id := domain.ParseItemID(r.URL.Query().Get("id"))
		if err := s.wishes.Delete(ctx, user, id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleWishToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, err := userQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		ID domain.ItemID `json:"id"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	toggled, err := s.wishes.Toggle(r.Context(), user, body.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggled)
}
