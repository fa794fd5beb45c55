package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/treatment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Input struct {
	Items   []mudcheck.Sample `json:"items"`
	Profile string            `json:"profile,omitempty"`
}

type Handler struct {
	Profiles treatment.Profiles
	Log      *zap.Logger
}

// Export evaluates the posted samples and downloads their snapshot rows.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	cal, err := treatment.ResolveOrDefault(r.Context(), h.Profiles, input.Profile)
	if err != nil {
		http.Error(w, "Unknown calibration profile", http.StatusNotFound)
		return
	}
	rows := make([]mudcheck.Snapshot, 0, len(input.Items))
	for _, s := range input.Items {
		rows = append(rows, mudcheck.Evaluate(s, cal).Snapshot())
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, rows); err != nil {
		if h.Log != nil {
			h.Log.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		}
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}

	name := fmt.Sprintf("mudcheck-%s.%s", uuid.NewString(), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil && h.Log != nil {
		h.Log.Warn("export write", zap.Error(err))
	}
}
