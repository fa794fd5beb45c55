package alkalinity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Zones(t *testing.T) {
	tests := []struct {
		name   string
		pf, mf float64
		want   Result
	}{
		{"bicarbonate only", 0, 10, Result{Zone: ZoneBicarbonateOnly, Bicarbonate: 12200}},
		{"all zero", 0, 0, Result{Zone: ZoneBicarbonateOnly}},
		{"bicarbonate and carbonate", 3, 10, Result{Zone: ZoneBicarbonateCarbonate, Carbonate: 3600, Bicarbonate: 4880}},
		{"carbonate only", 2, 4, Result{Zone: ZoneCarbonateOnly, Carbonate: 2400}},
		{"hydroxide and carbonate", 4, 6, Result{Zone: ZoneHydroxideCarbonate, Hydroxide: 680, Carbonate: 2400}},
		{"hydroxide only", 5, 5, Result{Zone: ZoneHydroxideOnly, Hydroxide: 1700}},
		{"pf above mf floors carbonate", 5, 3, Result{Zone: ZoneHydroxideCarbonate, Hydroxide: 2380}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(0, tt.pf, tt.mf)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_PmDoesNotAffectResult(t *testing.T) {
	assert.Equal(t, Classify(0, 3, 10), Classify(42, 3, 10))
}

func TestClassify_Exhaustive(t *testing.T) {
	values := []float64{0, 1e-9, 0.05, 0.1, 0.2, 0.25, 0.5, 1, 1.5, 2, 2.5, 3, 4, 5, 7.3, 10, 14.6, 20, 1e6}
	for _, pf := range values {
		for _, mf := range values {
			for _, m := range []float64{mf, 2 * pf, pf} {
				res := Classify(0, pf, m)
				require.NotEqual(t, ZoneUnclassified, res.Zone, "pf=%v mf=%v", pf, m)
				assert.GreaterOrEqual(t, res.Hydroxide, 0.0)
				assert.GreaterOrEqual(t, res.Carbonate, 0.0)
				assert.GreaterOrEqual(t, res.Bicarbonate, 0.0)
				assert.Equal(t, res, Classify(0, pf, m))
			}
		}
	}
}

func TestClassify_NaNFallsThrough(t *testing.T) {
	res := Classify(0, math.NaN(), 1)
	assert.Equal(t, Result{Zone: ZoneUnclassified}, res)
}

func TestClassify_BicarbonateMonotonicInMf(t *testing.T) {
	for _, pf := range []float64{0, 0.5, 1, 2.5} {
		prev := -1.0
		for mf := 0.0; mf <= 20; mf += 0.25 {
			res := Classify(0, pf, mf)
			if res.Bicarbonate == 0 {
				continue
			}
			assert.GreaterOrEqual(t, res.Bicarbonate, prev, "pf=%v mf=%v", pf, mf)
			prev = res.Bicarbonate
		}
	}
}

func TestCalculate(t *testing.T) {
	assert.Equal(t, Classify(1, 3, 10), Calculate(Input{Pm: 1, Pf: 3, Mf: 10}))
}
