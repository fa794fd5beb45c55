package treatment

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Agent names the additive used to correct calcium in excess of hardness.
type Agent string

const (
	AgentSodaAsh         Agent = "soda_ash"
	AgentCalciumChloride Agent = "calcium_chloride"
)

// DefaultExcessCalciumDivisor is mg/L of excess calcium treated per ppb of
// agent. Stoichiometry gives about 1078 for soda ash (0.00035 ppb per mg/L,
// 106/40 lb Na2CO3 per lb Ca); field charts use 1000 to 1065.
const DefaultExcessCalciumDivisor = 1065.0

// DefaultSodaAshBuffer converts bicarbonate load into soda ash demand with a
// field safety margin.
const DefaultSodaAshBuffer = 1.5

// Thresholds are advisory limits in mg/L.
type Thresholds struct {
	Carbonate   float64 `json:"carbonate" yaml:"carbonate" validate:"gte=0"`
	Bicarbonate float64 `json:"bicarbonate" yaml:"bicarbonate" validate:"gte=0"`
	Hydroxide   float64 `json:"hydroxide" yaml:"hydroxide" validate:"gte=0"`
	HighCalcium float64 `json:"high_calcium" yaml:"high_calcium" validate:"gte=0"`
	LowHardness float64 `json:"low_hardness" yaml:"low_hardness" validate:"gte=0"`
}

// Calibration is the field-practice configuration of the advisor. The
// stoichiometric species factors are not part of it.
type Calibration struct {
	Name                 string     `json:"name" yaml:"name" validate:"required,max=64"`
	Source               string     `json:"source,omitempty" yaml:"source"`
	ExcessCalciumDivisor float64    `json:"excess_calcium_divisor" yaml:"excess_calcium_divisor" validate:"gt=0"`
	SodaAshBuffer        float64    `json:"soda_ash_buffer" yaml:"soda_ash_buffer" validate:"gt=0"`
	CalciumAgent         Agent      `json:"calcium_agent" yaml:"calcium_agent" validate:"oneof=soda_ash calcium_chloride"`
	Thresholds           Thresholds `json:"thresholds" yaml:"thresholds"`
}

var validate = validator.New()

// DefaultCalibration returns the built-in profile.
func DefaultCalibration() Calibration {
	return Calibration{
		Name:                 "default",
		Source:               "built-in",
		ExcessCalciumDivisor: DefaultExcessCalciumDivisor,
		SodaAshBuffer:        DefaultSodaAshBuffer,
		CalciumAgent:         AgentSodaAsh,
		Thresholds: Thresholds{
			Carbonate:   100,
			Bicarbonate: 100,
			Hydroxide:   50,
			HighCalcium: 1000,
			LowHardness: 500,
		},
	}
}

// Validate reports the first invalid field of c.
func (c Calibration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid calibration %q: %w", c.Name, err)
	}
	return nil
}
