package handlers

import (
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/skinscan/internal/session"
	"github.com/lehigh-university-libraries/skinscan/internal/view"
)

type sessionSummary struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
}

func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		sessions := h.sessionStore.GetAll()
		sessionList := make([]sessionSummary, 0, len(sessions))
		for _, sess := range sessions {
			sessionList = append(sessionList, sessionSummary{ID: sess.ID(), State: sess.State()})
		}
		h.writeJSON(w, sessionList)
	case "POST":
		sess := h.sessionStore.Create()
		h.writeJSONStatus(w, http.StatusCreated, map[string]any{
			"session_id": sess.ID(),
			"state":      sess.State(),
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSessionDetail serves /api/sessions/{id} and its action subpaths
func (h *Handler) HandleSessionDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	sessionID, action, _ := strings.Cut(rest, "/")

	sess, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	switch action {
	case "":
		h.handleSession(w, r, sess)
	case "upload":
		h.handleUpload(w, r, sess)
	case "analyze":
		h.handleAnalyze(w, r, sess)
	case "clear":
		h.handleClear(w, r, sess)
	case "report":
		h.handleReport(w, r, sess)
	default:
		h.writeError(w, "Unknown session action: "+action, http.StatusNotFound)
	}
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, view.Render(sess.Snapshot()))
	case "DELETE":
		h.sessionStore.Delete(sess.ID())
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, started := sess.Analyze(); !started {
		// nothing uploaded or an analysis is already running
		h.writeJSONStatus(w, http.StatusConflict, view.Render(sess.Snapshot()))
		return
	}
	h.writeJSONStatus(w, http.StatusAccepted, view.Render(sess.Snapshot()))
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess.Clear()
	h.writeJSON(w, view.Render(sess.Snapshot()))
}
