package main

import (
	"strings"

	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/treatment"
)

const usage = `Send a mud check as five values:
pm pf mf calcium hardness

Use "-" for a reading you did not take, e.g.
- 3 10 200 400`

// ParseMessage reads up to five whitespace separated readings in the order
// pm, pf, mf, calcium, hardness. ok is false when the message has none.
func ParseMessage(text string) (mudcheck.Sample, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "/") {
		return mudcheck.Sample{}, false
	}
	r := make([]mudcheck.Reading, 5)
	for i := 0; i < len(fields) && i < len(r); i++ {
		r[i] = mudcheck.ParseReading(fields[i])
	}
	return mudcheck.Sample{Pm: r[0], Pf: r[1], Mf: r[2], Calcium: r[3], Hardness: r[4]}, true
}

// Reply answers one chat message.
func Reply(text string, cal treatment.Calibration) string {
	s, ok := ParseMessage(text)
	if !ok {
		return usage
	}
	return mudcheck.Summary(mudcheck.Evaluate(s, cal))
}
