package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/treatment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Request struct {
	Input
	Sample  mudcheck.Sample `json:"sample"`
	Profile string          `json:"profile,omitempty"`
}

type Handler struct {
	Profiles treatment.Profiles
	Log      *zap.Logger
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	cal, err := treatment.ResolveOrDefault(r.Context(), h.Profiles, req.Profile)
	if err != nil {
		http.Error(w, "Unknown calibration profile", http.StatusNotFound)
		return
	}
	in := req.Input
	in.ID = uuid.NewString()
	in.Report = mudcheck.Evaluate(req.Sample, cal)

	var buf bytes.Buffer
	if err := Render(&buf, in); err != nil {
		if h.Log != nil {
			h.Log.Error("report generation failed", zap.String("id", in.ID), zap.Error(err))
		}
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"mudcheck-%s.pdf\"", in.ID))
	w.Write(buf.Bytes())
}
