package batch

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/treatment"

	"go.uber.org/zap"
)

// MaxItems bounds a single batch request.
const MaxItems = 5000

// SizeObserver is implemented by observers that also track batch sizes.
type SizeObserver interface {
	ObserveBatch(n int)
}

type Handler struct {
	Profiles treatment.Profiles
	Observer mudcheck.Observer
	Workers  int
	Log      *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if len(input.Items) > MaxItems {
		http.Error(w, "Too many items", http.StatusRequestEntityTooLarge)
		return
	}
	cal, err := treatment.ResolveOrDefault(r.Context(), h.Profiles, input.Profile)
	if err != nil {
		http.Error(w, "Unknown calibration profile", http.StatusNotFound)
		return
	}
	res, err := h.Run(r, cal, input.Items)
	if err != nil {
		if errors.Is(err, ErrNoItems) {
			http.Error(w, "No items", http.StatusBadRequest)
			return
		}
		http.Error(w, "Calculation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil && h.Log != nil {
		h.Log.Error("encode response", zap.Error(err))
	}
}

// Run evaluates samples for a request and reports them to the observer.
func (h *Handler) Run(r *http.Request, cal treatment.Calibration, samples []mudcheck.Sample) (Result, error) {
	start := time.Now()
	res, err := Evaluate(r.Context(), cal, samples, h.Workers)
	if err != nil {
		if h.Log != nil {
			h.Log.Warn("batch evaluation failed", zap.Int("items", len(samples)), zap.Error(err))
		}
		return Result{}, err
	}
	if h.Observer != nil {
		for _, rep := range res.Results {
			h.Observer.ObserveReport(rep)
		}
		if so, ok := h.Observer.(SizeObserver); ok {
			so.ObserveBatch(res.Count)
		}
	}
	if h.Log != nil {
		h.Log.Info("batch evaluated",
			zap.Int("items", res.Count),
			zap.String("calibration", cal.Name),
			zap.Duration("took", time.Since(start)))
	}
	return res, nil
}
