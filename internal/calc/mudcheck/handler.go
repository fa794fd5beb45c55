package mudcheck

import (
	"encoding/json"
	"net/http"

	"Mudcheck/internal/calc/treatment"

	"go.uber.org/zap"
)

// Observer receives every evaluated report, e.g. for metrics.
type Observer interface {
	ObserveReport(Report)
}

type Input struct {
	Sample
	Profile string `json:"profile,omitempty"`
}

type Handler struct {
	Profiles treatment.Profiles
	Observer Observer
	Log      *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	cal, err := treatment.ResolveOrDefault(r.Context(), h.Profiles, input.Profile)
	if err != nil {
		h.logger().Warn("calibration lookup failed", zap.String("profile", input.Profile), zap.Error(err))
		http.Error(w, "Unknown calibration profile", http.StatusNotFound)
		return
	}
	rep := Evaluate(input.Sample, cal)
	if h.Observer != nil {
		h.Observer.ObserveReport(rep)
	}
	h.logger().Info("mud check evaluated",
		zap.String("zone", string(rep.Species.Zone)),
		zap.String("calibration", cal.Name),
		zap.Strings("missing", rep.Missing))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		h.logger().Error("encode response", zap.Error(err))
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
