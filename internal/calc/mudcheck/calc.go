package mudcheck

import (
	"Mudcheck/internal/calc/alkalinity"
	"Mudcheck/internal/calc/treatment"
)

// Sample is one mud check as entered in the field.
type Sample struct {
	Pm       Reading `json:"pm"`
	Pf       Reading `json:"pf"`
	Mf       Reading `json:"mf"`
	Calcium  Reading `json:"calcium"`
	Hardness Reading `json:"hardness"`
}

// NewSample builds a sample with every reading present.
func NewSample(pm, pf, mf, calcium, hardness float64) Sample {
	return Sample{Pm: Of(pm), Pf: Of(pf), Mf: Of(mf), Calcium: Of(calcium), Hardness: Of(hardness)}
}

// Missing names the absent readings in input order.
func (s Sample) Missing() []string {
	var out []string
	for _, f := range []struct {
		name string
		r    Reading
	}{
		{"pm", s.Pm}, {"pf", s.Pf}, {"mf", s.Mf}, {"calcium", s.Calcium}, {"hardness", s.Hardness},
	} {
		if !f.r.Present {
			out = append(out, f.name)
		}
	}
	return out
}

// Report is the full result of evaluating one sample.
type Report struct {
	Sample  Sample            `json:"sample"`
	Species alkalinity.Result `json:"species"`
	Plan    treatment.Plan    `json:"plan"`
	Missing []string          `json:"missing,omitempty"`
}

// Bounded returns s with titrations above alkalinity.MaxTitration marked
// absent.
func (s Sample) Bounded() Sample {
	s.Pm = s.Pm.upTo(alkalinity.MaxTitration)
	s.Pf = s.Pf.upTo(alkalinity.MaxTitration)
	s.Mf = s.Mf.upTo(alkalinity.MaxTitration)
	return s
}

// Evaluate classifies the sample and derives its treatment plan. Absent and
// out-of-range readings enter the calculators as zero.
func Evaluate(s Sample, cal treatment.Calibration) Report {
	s = s.Bounded()
	species := alkalinity.Classify(s.Pm.Value, s.Pf.Value, s.Mf.Value)
	return Report{
		Sample:  s,
		Species: species,
		Plan:    cal.Recommend(species, s.Calcium.Value, s.Hardness.Value),
		Missing: s.Missing(),
	}
}

// SnapshotHeader is the export column order.
var SnapshotHeader = []string{"pm", "pf", "mf", "calcium", "hardness", "hydroxide", "carbonate", "bicarbonate"}

// Snapshot is the flat export row of a report.
type Snapshot struct {
	Pm          float64 `json:"pm"`
	Pf          float64 `json:"pf"`
	Mf          float64 `json:"mf"`
	Calcium     float64 `json:"calcium"`
	Hardness    float64 `json:"hardness"`
	Hydroxide   float64 `json:"hydroxide"`
	Carbonate   float64 `json:"carbonate"`
	Bicarbonate float64 `json:"bicarbonate"`
}

func (r Report) Snapshot() Snapshot {
	return Snapshot{
		Pm:          r.Sample.Pm.Value,
		Pf:          r.Sample.Pf.Value,
		Mf:          r.Sample.Mf.Value,
		Calcium:     r.Sample.Calcium.Value,
		Hardness:    r.Sample.Hardness.Value,
		Hydroxide:   r.Species.Hydroxide,
		Carbonate:   r.Species.Carbonate,
		Bicarbonate: r.Species.Bicarbonate,
	}
}

// Values returns the row in SnapshotHeader order.
func (s Snapshot) Values() []float64 {
	return []float64{s.Pm, s.Pf, s.Mf, s.Calcium, s.Hardness, s.Hydroxide, s.Carbonate, s.Bicarbonate}
}
