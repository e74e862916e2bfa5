package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/lehigh-university-libraries/skinscan/internal/view"
)

// HandlePage serves the view. A visit without a live session mounts a new
// one and redirects to it.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session")
	sess, ok := h.sessionStore.Get(sessionID)
	if !ok {
		sess = h.sessionStore.Create()
		http.Redirect(w, r, "/?session="+url.QueryEscape(sess.ID()), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.HTML(w, view.Render(sess.Snapshot())); err != nil {
		slog.Error("Unable to render page", "session_id", sess.ID(), "err", err)
	}
}
