package mudcheck

import (
	"fmt"
	"strings"

	"Mudcheck/internal/calc/numeric"
)

// Summary renders a report as plain text for terminals and chat.
func Summary(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Zone: %s\n", r.Species.Zone)
	fmt.Fprintf(&b, "Hydroxide (mg/L): %g\n", numeric.Round(r.Species.Hydroxide, 2))
	fmt.Fprintf(&b, "Carbonate (mg/L): %g\n", numeric.Round(r.Species.Carbonate, 2))
	fmt.Fprintf(&b, "Bicarbonate (mg/L): %g\n", numeric.Round(r.Species.Bicarbonate, 2))
	fmt.Fprintf(&b, "Calcium (mg/L): %g\n", numeric.Round(r.Sample.Calcium.Value, 2))
	fmt.Fprintf(&b, "Hardness (mg/L): %g\n", numeric.Round(r.Sample.Hardness.Value, 2))
	b.WriteString("\nTreatment (ppb):\n")
	fmt.Fprintf(&b, "  Lime: %.2f\n", r.Plan.Lime)
	fmt.Fprintf(&b, "  Caustic Soda: %.2f\n", r.Plan.CausticSoda)
	fmt.Fprintf(&b, "  Soda Ash: %.3f\n", r.Plan.SodaAsh)
	fmt.Fprintf(&b, "  Calcium Adjustment (%s): %.2f\n", r.Plan.CalciumAgent, r.Plan.CalciumAdjustment)
	b.WriteString("\nAdvisory:\n")
	for _, f := range r.Plan.Flags {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	if len(r.Missing) > 0 {
		fmt.Fprintf(&b, "\nNot entered (treated as 0): %s\n", strings.Join(r.Missing, ", "))
	}
	return b.String()
}
