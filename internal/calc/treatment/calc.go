package treatment

import (
	"Mudcheck/internal/calc/alkalinity"
	"Mudcheck/internal/calc/numeric"
)

// Flag is an advisory raised by Recommend.
type Flag string

const (
	FlagCarbonateContamination   Flag = "Carbonate Contamination"
	FlagBicarbonateContamination Flag = "Bicarbonate Contamination"
	FlagExcessHydroxide          Flag = "Excess Hydroxide"
	FlagHighCalcium              Flag = "High Calcium"
	FlagLowHardness              Flag = "Low Hardness"
	FlagBalanced                 Flag = "Balanced"
)

// MaxConcentration is the largest accepted concentration in mg/L.
const MaxConcentration = 1e6

type Input struct {
	Species  alkalinity.Result `json:"species"`
	Calcium  float64           `json:"calcium"`
	Hardness float64           `json:"hardness"`
	Profile  string            `json:"profile,omitempty"`
}

// InRange reports whether every concentration is finite and in
// [0, MaxConcentration].
func (in Input) InRange() bool {
	for _, v := range []float64{
		in.Species.Hydroxide, in.Species.Carbonate, in.Species.Bicarbonate, in.Calcium, in.Hardness,
	} {
		if !numeric.Within(v, MaxConcentration) {
			return false
		}
	}
	return true
}

// Plan holds dosages in ppb (lb/bbl).
type Plan struct {
	Lime              float64 `json:"lime"`
	CausticSoda       float64 `json:"caustic_soda"`
	SodaAsh           float64 `json:"soda_ash"`
	CalciumAdjustment float64 `json:"calcium_adjustment"`
	CalciumAgent      Agent   `json:"calcium_agent"`
	Flags             []Flag  `json:"advisory_flags"`
	Calibration       string  `json:"calibration"`
}

// Balanced reports whether no contamination or imbalance flag fired.
func (p Plan) Balanced() bool {
	return len(p.Flags) == 1 && p.Flags[0] == FlagBalanced
}

// Recommend derives a plan with the built-in calibration.
func Recommend(species alkalinity.Result, calcium, hardness float64) Plan {
	return DefaultCalibration().Recommend(species, calcium, hardness)
}

// Recommend converts species concentrations and calcium/hardness readings
// into dosages and advisory flags. Flags are listed in evaluation order; a
// plan with nothing to report carries FlagBalanced alone.
func (c Calibration) Recommend(species alkalinity.Result, calcium, hardness float64) Plan {
	plan := Plan{CalciumAgent: c.CalciumAgent, Calibration: c.Name}

	if species.Carbonate > 0 {
		plan.Lime = numeric.Round(species.Carbonate/alkalinity.CarbonateFactor, 2)
	}
	if species.Hydroxide > 0 {
		plan.CausticSoda = numeric.Round(species.Hydroxide/alkalinity.HydroxideFactor, 2)
	}
	if species.Bicarbonate > 0 {
		plan.SodaAsh = numeric.Round(species.Bicarbonate/alkalinity.BicarbonateFactor*c.SodaAshBuffer, 3)
	}
	if calcium > hardness && c.ExcessCalciumDivisor > 0 {
		excess := calcium - hardness
		plan.CalciumAdjustment = numeric.Round(excess/c.ExcessCalciumDivisor, 2)
	}

	t := c.Thresholds
	if species.Carbonate > t.Carbonate {
		plan.Flags = append(plan.Flags, FlagCarbonateContamination)
	}
	if species.Bicarbonate > t.Bicarbonate {
		plan.Flags = append(plan.Flags, FlagBicarbonateContamination)
	}
	if species.Hydroxide > t.Hydroxide {
		plan.Flags = append(plan.Flags, FlagExcessHydroxide)
	}
	if calcium > t.HighCalcium {
		plan.Flags = append(plan.Flags, FlagHighCalcium)
	}
	if hardness < t.LowHardness {
		plan.Flags = append(plan.Flags, FlagLowHardness)
	}
	if len(plan.Flags) == 0 {
		plan.Flags = []Flag{FlagBalanced}
	}
	return plan
}
