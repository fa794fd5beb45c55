package mudcheck

import (
	"encoding/json"
	"strconv"
	"strings"

	"Mudcheck/internal/calc/numeric"
	"Mudcheck/internal/calc/treatment"
)

// Reading is one numeric field of a mud check. An absent reading carries
// Value 0 so the calculators stay total, while Present keeps "not entered"
// distinguishable from "measured as zero".
type Reading struct {
	Value   float64
	Present bool
}

// Of returns a present reading, with negative values clamped to zero.
// NaN, infinities and values above treatment.MaxConcentration are absent.
func Of(v float64) Reading {
	if !numeric.Finite(v) || v > treatment.MaxConcentration {
		return Reading{}
	}
	return Reading{Value: numeric.NonNegative(v), Present: true}
}

// upTo drops a reading above limit.
func (r Reading) upTo(limit float64) Reading {
	if r.Value > limit {
		return Reading{}
	}
	return r
}

// ParseReading parses raw field entry. Blank or unparsable input yields an
// absent zero reading; negative values are clamped to zero.
func ParseReading(raw string) Reading {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reading{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Reading{}
	}
	return Of(v)
}

func (r Reading) MarshalJSON() ([]byte, error) {
	if !r.Present {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number, a numeric string or null. Anything else
// decodes to an absent reading rather than failing the request.
func (r *Reading) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*r = Reading{}
	case strings.HasPrefix(s, `"`):
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			*r = Reading{}
			return nil
		}
		*r = ParseReading(raw)
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*r = Reading{}
			return nil
		}
		*r = Of(v)
	}
	return nil
}
