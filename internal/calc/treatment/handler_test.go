package treatment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles map[string]Calibration

func (f fakeProfiles) Resolve(_ context.Context, name string) (Calibration, error) {
	if name == "" {
		return DefaultCalibration(), nil
	}
	c, ok := f[name]
	if !ok {
		return Calibration{}, errors.New("not found")
	}
	return c, nil
}

func TestHandler_CalcDefault(t *testing.T) {
	h := &Handler{}
	body := `{"species":{"zone":"Bicarbonate + Carbonate","carbonate":3600,"bicarbonate":4880},"calcium":0,"hardness":400}`
	rec := httptest.NewRecorder()

	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/tools/treatment/calc", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var plan Plan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plan))
	assert.Equal(t, 3.0, plan.Lime)
	assert.Equal(t, []Flag{FlagCarbonateContamination, FlagBicarbonateContamination, FlagLowHardness}, plan.Flags)
}

func TestHandler_CalcProfile(t *testing.T) {
	cal := DefaultCalibration()
	cal.Name = "rig-7"
	cal.ExcessCalciumDivisor = 1000
	h := &Handler{Profiles: fakeProfiles{"rig-7": cal}}

	rec := httptest.NewRecorder()
	body := `{"species":{},"calcium":2500,"hardness":500,"profile":"rig-7"}`
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var plan Plan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plan))
	assert.Equal(t, 2.0, plan.CalciumAdjustment)
	assert.Equal(t, "rig-7", plan.Calibration)
}

func TestHandler_CalcUnknownProfile(t *testing.T) {
	h := &Handler{Profiles: fakeProfiles{}}
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"profile":"nope"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CalcOutOfRange(t *testing.T) {
	for _, body := range []string{
		`{"species":{"hydroxide":1e308},"hardness":600}`,
		`{"calcium":2e6}`,
		`{"hardness":-5}`,
	} {
		h := &Handler{}
		rec := httptest.NewRecorder()
		h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/tools/treatment/calc", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
