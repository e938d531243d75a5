package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"AgroSim/internal/calc/payback"
	"AgroSim/internal/logging"

	"go.uber.org/zap"
)

type Handler struct {
	// MaxBytes caps the upload size.
	MaxBytes int64
}

func (h *Handler) Scenario(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc, err := Read(file)
	if err != nil {
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}
	res, err := payback.Compute(doc)
	if err != nil {
		status, msg := payback.ErrorStatus(err)
		log.Warn("imported scenario rejected", zap.String("file", header.Filename), zap.Error(err))
		http.Error(w, msg+": "+err.Error(), status)
		return
	}
	log.Info("scenario imported",
		zap.String("file", header.Filename),
		zap.Int("plots", len(res.Details.Plots)))

	body, err := json.Marshal(res)
	if err != nil {
		log.Error("encode output", zap.Error(err))
		http.Error(w, "Calculation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
