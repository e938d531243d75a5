package payback

import (
	"encoding/json"
	"errors"
	"net/http"

	"AgroSim/internal/logging"

	"go.uber.org/zap"
)

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	doc, err := DecodeJSON(r.Body)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Compute(doc)
	if err != nil {
		status, msg := ErrorStatus(err)
		log.Warn("payback calculation failed", zap.Error(err), zap.Int("status", status))
		http.Error(w, msg+": "+err.Error(), status)
		return
	}
	log.Debug("payback calculated",
		zap.Int("plots", len(res.Details.Plots)),
		zap.Stringer("payback", res.Summary.Payback),
		zap.Stringer("payback_full", res.Summary.PaybackFull))
	body, err := json.Marshal(res)
	if err != nil {
		log.Error("encode output", zap.Error(err))
		http.Error(w, "Calculation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// ErrorStatus maps a calculation error to an HTTP status and message.
// Bad input is the caller's fault; anything else is ours.
func ErrorStatus(err error) (int, string) {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidGeometry) {
		return http.StatusBadRequest, "Invalid scenario"
	}
	return http.StatusInternalServerError, "Calculation error"
}
