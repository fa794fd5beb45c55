package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"Mudcheck/internal/calc/treatment"
	"Mudcheck/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ProfileHandler exposes calibration profiles over HTTP.
type ProfileHandler struct {
	Repo     repo.Repository
	Resolver *repo.Resolver
	Log      *zap.Logger
}

type listResponse struct {
	Default  treatment.Calibration   `json:"default"`
	Profiles []treatment.Calibration `json:"profiles"`
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	cals, err := h.Repo.List(r.Context())
	if err != nil {
		h.logger().Error("list calibrations", zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if cals == nil {
		cals = []treatment.Calibration{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(listResponse{Default: treatment.DefaultCalibration(), Profiles: cals}); err != nil {
		h.logger().Error("encode response", zap.Error(err))
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cal, err := h.Resolver.Resolve(r.Context(), name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "Calibration not found", http.StatusNotFound)
			return
		}
		h.logger().Error("get calibration", zap.String("name", name), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cal); err != nil {
		h.logger().Error("encode response", zap.Error(err))
	}
}

// Put creates or replaces the profile named in the path.
func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var cal treatment.Calibration
	if err := json.NewDecoder(r.Body).Decode(&cal); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	cal.Name = mux.Vars(r)["name"]
	if err := cal.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repo.Save(r.Context(), cal); err != nil {
		h.logger().Error("save calibration", zap.String("name", cal.Name), zap.Error(err))
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	h.logger().Info("calibration saved",
		zap.String("name", cal.Name),
		zap.Float64("excess_calcium_divisor", cal.ExcessCalciumDivisor))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
