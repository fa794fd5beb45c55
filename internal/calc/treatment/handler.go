package treatment

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Profiles resolves a calibration by name. The empty name selects the default.
type Profiles interface {
	Resolve(ctx context.Context, name string) (Calibration, error)
}

type Handler struct {
	Profiles Profiles
	Log      *zap.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	cal, err := ResolveOrDefault(r.Context(), h.Profiles, input.Profile)
	if err != nil {
		h.logger().Warn("calibration lookup failed", zap.String("profile", input.Profile), zap.Error(err))
		http.Error(w, "Unknown calibration profile", http.StatusNotFound)
		return
	}
	if !input.InRange() {
		http.Error(w, "Concentration out of range", http.StatusBadRequest)
		return
	}
	plan := cal.Recommend(input.Species, input.Calcium, input.Hardness)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(plan); err != nil {
		h.logger().Error("encode response", zap.Error(err))
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// ResolveOrDefault looks name up in p, falling back to the built-in
// calibration when p is nil.
func ResolveOrDefault(ctx context.Context, p Profiles, name string) (Calibration, error) {
	if p == nil {
		return DefaultCalibration(), nil
	}
	return p.Resolve(ctx, name)
}
