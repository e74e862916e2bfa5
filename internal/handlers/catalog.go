package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/lehigh-university-libraries/skinscan/internal/catalog"
	"github.com/lehigh-university-libraries/skinscan/internal/models"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// HandleCatalog returns the condition catalog as JSON
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := h.catalog.Encode(w, catalog.FormatJSON); err != nil {
		slog.Error("Unable to encode catalog", "err", err)
	}
}

// HandleDoctorQR renders a tel: QR code for a doctor on the roster
func (h *Handler) HandleDoctorQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	phone := r.URL.Query().Get("phone")
	if phone == "" {
		h.writeError(w, "phone is required", http.StatusBadRequest)
		return
	}

	known := slices.ContainsFunc(h.catalog.Doctors(), func(d models.Doctor) bool {
		return d.Phone == phone
	})
	if !known {
		h.writeError(w, "Unknown doctor phone", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode("tel:"+phone, qrcode.Medium, qrSize)
	if err != nil {
		h.writeError(w, "Failed to generate QR code: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(png); err != nil {
		slog.Error("Unable to write QR code", "err", err)
	}
}
