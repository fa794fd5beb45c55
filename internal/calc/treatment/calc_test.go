package treatment

import (
	"testing"

	"Mudcheck/internal/calc/alkalinity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_Dosages(t *testing.T) {
	tests := []struct {
		name              string
		species           alkalinity.Result
		calcium, hardness float64
		want              Plan
	}{
		{
			name:     "carbonate to lime",
			species:  alkalinity.Result{Zone: alkalinity.ZoneBicarbonateCarbonate, Carbonate: 3600, Bicarbonate: 4880},
			hardness: 600,
			want: Plan{
				Lime:    3,
				SodaAsh: 6,
				Flags:   []Flag{FlagCarbonateContamination, FlagBicarbonateContamination},
			},
		},
		{
			name:     "hydroxide to caustic",
			species:  alkalinity.Result{Zone: alkalinity.ZoneHydroxideOnly, Hydroxide: 1700},
			hardness: 800,
			want: Plan{
				CausticSoda: 5,
				Flags:       []Flag{FlagExcessHydroxide},
			},
		},
		{
			name:     "soda ash rounds to three places",
			species:  alkalinity.Result{Zone: alkalinity.ZoneBicarbonateOnly, Bicarbonate: 100},
			hardness: 500,
			want: Plan{
				SodaAsh: 0.123,
				Flags:   []Flag{FlagBalanced},
			},
		},
		{
			name:     "excess calcium corrected",
			species:  alkalinity.Result{Zone: alkalinity.ZoneBicarbonateOnly},
			calcium:  1565,
			hardness: 500,
			want: Plan{
				CalciumAdjustment: 1,
				Flags:             []Flag{FlagHighCalcium},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.species, tt.calcium, tt.hardness)
			tt.want.CalciumAgent = AgentSodaAsh
			tt.want.Calibration = "default"
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommend_LimeScenario(t *testing.T) {
	plan := Recommend(alkalinity.Result{Carbonate: 3600}, 0, 1000)
	assert.Equal(t, 3.00, plan.Lime)
}

func TestRecommend_LowHardnessOnly(t *testing.T) {
	plan := Recommend(alkalinity.Result{Zone: alkalinity.ZoneBicarbonateOnly}, 0, 400)
	assert.Equal(t, []Flag{FlagLowHardness}, plan.Flags)
	assert.False(t, plan.Balanced())
}

func TestRecommend_AllFlagsInOrder(t *testing.T) {
	species := alkalinity.Result{Hydroxide: 51, Carbonate: 101, Bicarbonate: 101}
	plan := Recommend(species, 1001, 0)
	assert.Equal(t, []Flag{
		FlagCarbonateContamination,
		FlagBicarbonateContamination,
		FlagExcessHydroxide,
		FlagHighCalcium,
		FlagLowHardness,
	}, plan.Flags)
}

func TestRecommend_ThresholdsAreStrict(t *testing.T) {
	species := alkalinity.Result{Hydroxide: 50, Carbonate: 100, Bicarbonate: 100}
	plan := Recommend(species, 1000, 500)
	assert.True(t, plan.Balanced())
}

func TestRecommend_CalibrationDivisor(t *testing.T) {
	cal := DefaultCalibration()
	cal.Name = "chart-1000"
	cal.ExcessCalciumDivisor = 1000
	cal.CalciumAgent = AgentCalciumChloride

	plan := cal.Recommend(alkalinity.Result{}, 1500, 500)

	assert.Equal(t, 1.0, plan.CalciumAdjustment)
	assert.Equal(t, AgentCalciumChloride, plan.CalciumAgent)
	assert.Equal(t, "chart-1000", plan.Calibration)
}

func TestRecommend_NoCorrectionWhenHardnessCoversCalcium(t *testing.T) {
	plan := Recommend(alkalinity.Result{}, 400, 400)
	assert.Zero(t, plan.CalciumAdjustment)
}

func TestCalibration_Validate(t *testing.T) {
	require.NoError(t, DefaultCalibration().Validate())

	bad := DefaultCalibration()
	bad.ExcessCalciumDivisor = 0
	assert.Error(t, bad.Validate())

	bad = DefaultCalibration()
	bad.CalciumAgent = "lime"
	assert.Error(t, bad.Validate())

	bad = DefaultCalibration()
	bad.Name = ""
	assert.Error(t, bad.Validate())

	bad = DefaultCalibration()
	bad.Thresholds.Hydroxide = -1
	assert.Error(t, bad.Validate())
}
