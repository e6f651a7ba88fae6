package adapthttp

import (
	"net/http"

	"github.com/Soiya59/jijibaba-taijyu/internal/app"
	"github.com/Soiya59/jijibaba-taijyu/internal/domain"
)

// catalogHandler serves one shared catalog: list, create, edit, delete.
// Both users operate on the same items.
func (s *Server) catalogHandler(svc *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		switch r.Method {
		case http.MethodGet:
			if err := svc.Refresh(ctx); err != nil {
				s.log.WithError(err).Warn("catalog refresh failed, serving local items")
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": svc.Items()})

		case http.MethodPost:
			user, err := userQuery(r)
			if err != nil {
				writeError(w, err)
				return
			}
			var item domain.CatalogItem
			if err := parseJSON(r, &item); err != nil {
				writeError(w, err)
				return
			}
			created, err := svc.Create(ctx, user, item)
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
			var item domain.CatalogItem
			if err := parseJSON(r, &item); err != nil {
				writeError(w, err)
				return
			}
			updated, err := svc.Update(ctx, user, item)
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
			if err := svc.Delete(ctx, user, id); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// completeHandler applies a catalog item: credits a quest or debits a
// reward, then logs the history entry.
func (s *Server) completeHandler(svc *app.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		entry, balance, err := svc.Complete(r.Context(), user, body.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entry": entry, "points": balance})
	}
}

// historyHandler serves one per-user activity log padded to the display
// window.
func (s *Server) historyHandler(svc *app.HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		user, err := userQuery(r)
		if err != nil {
			writeError(w, err)
			return
		}
		entries, err := svc.Window(r.Context(), user)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user, "entries": entries})
	}
}
