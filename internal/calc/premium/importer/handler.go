package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"Mudcheck/internal/calc/premium/batch"
	"Mudcheck/internal/calc/treatment"

	"go.uber.org/zap"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Batch *batch.Handler
	Log   *zap.Logger
}

// Import evaluates every row of an uploaded workbook. The optional form
// field "profile" selects the calibration.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	samples, err := ReadSamples(file)
	if err != nil {
		if h.Log != nil {
			h.Log.Info("import rejected", zap.Error(err))
		}
		if errors.Is(err, ErrEmptySheet) {
			http.Error(w, "Empty sheet", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	if len(samples) > batch.MaxItems {
		http.Error(w, "Too many rows", http.StatusRequestEntityTooLarge)
		return
	}

	b := h.Batch
	if b == nil {
		b = &batch.Handler{Log: h.Log}
	}
	cal, err := treatment.ResolveOrDefault(r.Context(), b.Profiles, r.FormValue("profile"))
	if err != nil {
		http.Error(w, "Unknown calibration profile", http.StatusNotFound)
		return
	}
	res, err := b.Run(r, cal, samples)
	if err != nil {
		http.Error(w, "Calculation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil && h.Log != nil {
		h.Log.Error("encode response", zap.Error(err))
	}
}
