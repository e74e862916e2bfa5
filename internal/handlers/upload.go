package handlers

import (
	"errors"
	"net/http"

	"github.com/lehigh-university-libraries/skinscan/internal/intake"
	"github.com/lehigh-university-libraries/skinscan/internal/session"
	"github.com/lehigh-university-libraries/skinscan/internal/view"
)

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// leave headroom above the image cap for the multipart envelope
	r.Body = http.MaxBytesReader(w, r.Body, intake.MaxSize+1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("files")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	source, err := intake.ParseSource(r.FormValue("source"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := intake.Read(file, header.Filename, header.Header.Get("Content-Type"), source)
	switch {
	case errors.Is(err, intake.ErrNotImage):
		h.writeError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	case errors.Is(err, intake.ErrTooLarge):
		h.writeError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.Upload(img)
	h.writeJSON(w, view.Render(sess.Snapshot()))
}
