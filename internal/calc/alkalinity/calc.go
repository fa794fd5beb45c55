package alkalinity

import "Mudcheck/internal/calc/numeric"

// Zone names the dominant alkalinity regime of a filtrate.
type Zone string

const (
	ZoneBicarbonateOnly      Zone = "Bicarbonate Only"
	ZoneBicarbonateCarbonate Zone = "Bicarbonate + Carbonate"
	ZoneCarbonateOnly        Zone = "Carbonate Only"
	ZoneHydroxideCarbonate   Zone = "Hydroxide + Carbonate"
	ZoneHydroxideOnly        Zone = "Hydroxide Only"
	ZoneUnclassified         Zone = "Unclassified"
)

// Titration-to-concentration factors, mg/L per cm3 of 0.02N acid.
const (
	BicarbonateFactor = 1220.0
	CarbonateFactor   = 1200.0
	HydroxideFactor   = 340.0
)

// MaxTitration is the largest accepted titration volume in cm3. Species
// derived from titrations up to this limit stay finite.
const MaxTitration = 100.0

type Input struct {
	Pm float64 `json:"pm"`
	Pf float64 `json:"pf"`
	Mf float64 `json:"mf"`
}

// Result holds species concentrations in mg/L.
type Result struct {
	Zone        Zone    `json:"zone"`
	Hydroxide   float64 `json:"hydroxide"`
	Carbonate   float64 `json:"carbonate"`
	Bicarbonate float64 `json:"bicarbonate"`
}

// Classify maps filtrate titrations to an alkalinity zone and species
// concentrations. Pf and Mf drive the result; Pm is accepted so callers can
// pass a whole mud check through unchanged.
//
// For pf, mf >= 0 exactly one of the first five branches matches. The
// Unclassified branch is only reachable with NaN input.
func Classify(pm, pf, mf float64) Result {
	switch {
	case pf == 0:
		return Result{Zone: ZoneBicarbonateOnly, Bicarbonate: BicarbonateFactor * mf}
	case 2*pf < mf:
		return Result{
			Zone:        ZoneBicarbonateCarbonate,
			Carbonate:   CarbonateFactor * pf,
			Bicarbonate: BicarbonateFactor * (mf - 2*pf),
		}
	case 2*pf == mf:
		return Result{Zone: ZoneCarbonateOnly, Carbonate: CarbonateFactor * pf}
	case 2*pf > mf && pf != mf:
		// Pf > Mf is not a physical titration; carbonate is floored at zero.
		return Result{
			Zone:      ZoneHydroxideCarbonate,
			Hydroxide: HydroxideFactor * (2*pf - mf),
			Carbonate: max(0, CarbonateFactor*(mf-pf)),
		}
	case pf == mf:
		return Result{Zone: ZoneHydroxideOnly, Hydroxide: HydroxideFactor * mf}
	default:
		return Result{Zone: ZoneUnclassified}
	}
}

// InRange reports whether every titration is finite and in [0, MaxTitration].
func (in Input) InRange() bool {
	return numeric.Within(in.Pm, MaxTitration) &&
		numeric.Within(in.Pf, MaxTitration) &&
		numeric.Within(in.Mf, MaxTitration)
}

// Calculate is the Input form of Classify used by the HTTP handler.
func Calculate(in Input) Result {
	return Classify(in.Pm, in.Pf, in.Mf)
}
