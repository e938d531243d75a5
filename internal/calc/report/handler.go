package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"AgroSim/internal/calc/payback"
	"AgroSim/internal/logging"

	"go.uber.org/zap"
)

// Input is a report request: cover metadata plus the scenario to compute.
type Input struct {
	Meta
	Scenario payback.Document `json:"scenario"`
}

type Handler struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (Input, payback.Output, bool) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return Input{}, payback.Output{}, false
	}
	out, err := payback.Compute(input.Scenario)
	if err != nil {
		status, msg := payback.ErrorStatus(err)
		logging.FromContext(r.Context()).Warn("report scenario rejected", zap.Error(err))
		http.Error(w, msg+": "+err.Error(), status)
		return Input{}, payback.Output{}, false
	}
	return input, out, true
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	input, out, ok := h.compute(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := PDF(&buf, out, input.Meta, h.now()); err != nil {
		logging.FromContext(r.Context()).Error("render pdf", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", PDFName(input.Project)))
	w.Write(buf.Bytes())
}

func (h *Handler) Workbook(w http.ResponseWriter, r *http.Request) {
	input, out, ok := h.compute(w, r)
	if !ok {
		return
	}
	f, err := Workbook(out)
	if err != nil {
		logging.FromContext(r.Context()).Error("render workbook", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		logging.FromContext(r.Context()).Error("write workbook", zap.Error(err))
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", WorkbookName(input.Project)))
	w.Write(buf.Bytes())
}

// PDFName is the download name for a PDF report.
func PDFName(project string) string {
	if project == "" {
		return "payback.pdf"
	}
	return fmt.Sprintf("payback-%s.pdf", slug(project))
}
