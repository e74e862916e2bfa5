package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/skinscan/internal/report"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
)

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := report.Build(sess.Snapshot(), h.now())
	if errors.Is(err, report.ErrNoResult) {
		h.writeError(w, "No analysis result available", http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename(format)))
	if err := rep.Write(w, format); err != nil {
		slog.Error("Unable to write report", "session_id", sess.ID(), "err", err)
	}
}
