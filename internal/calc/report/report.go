package report

import (
	"fmt"
	"io"
	"time"

	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/numeric"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	ID      string          `json:"-"`
	Project string          `json:"project"`
	Well    string          `json:"well"`
	Author  string          `json:"author"`
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Date    time.Time       `json:"-"`
	Report  mudcheck.Report `json:"-"`
}

// Render writes a one-page PDF mud check report.
func Render(w io.Writer, in Input) error {
	if in.Title == "" {
		in.Title = "Mud Check Alkalinity Report"
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	rep := in.Report

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(in.Title, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Project: " + in.Project,
		"Well: " + in.Well,
		"Author: " + in.Author,
		"Date: " + in.Date.Format("2006-01-02"),
		"Report No.: " + in.ID,
		"Calibration: " + rep.Plan.Calibration,
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section(pdf, "Mud Check Inputs")
	s := rep.Sample
	table(pdf, [][2]string{
		{"Pm", reading(s.Pm)},
		{"Pf", reading(s.Pf)},
		{"Mf", reading(s.Mf)},
		{"Calcium (mg/L)", reading(s.Calcium)},
		{"Hardness (mg/L)", reading(s.Hardness)},
	})

	section(pdf, "Alkalinity Species")
	table(pdf, [][2]string{
		{"Zone", string(rep.Species.Zone)},
		{"Hydroxide (mg/L)", fmt.Sprintf("%g", numeric.Round(rep.Species.Hydroxide, 2))},
		{"Carbonate (mg/L)", fmt.Sprintf("%g", numeric.Round(rep.Species.Carbonate, 2))},
		{"Bicarbonate (mg/L)", fmt.Sprintf("%g", numeric.Round(rep.Species.Bicarbonate, 2))},
	})

	section(pdf, "Suggested Treatments (ppb)")
	table(pdf, [][2]string{
		{"Lime", fmt.Sprintf("%.2f", rep.Plan.Lime)},
		{"Caustic Soda", fmt.Sprintf("%.2f", rep.Plan.CausticSoda)},
		{"Soda Ash", fmt.Sprintf("%.3f", rep.Plan.SodaAsh)},
		{"Calcium Adjustment (" + string(rep.Plan.CalciumAgent) + ")", fmt.Sprintf("%.2f", rep.Plan.CalciumAdjustment)},
	})

	section(pdf, "Advisory")
	for _, f := range rep.Plan.Flags {
		pdf.Cell(0, 6, "- "+string(f))
		pdf.Ln(6)
	}

	if in.Notes != "" {
		pdf.Ln(4)
		section(pdf, "Notes")
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func table(pdf *gofpdf.Fpdf, rows [][2]string) {
	for _, row := range rows {
		pdf.CellFormat(70, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func reading(r mudcheck.Reading) string {
	if !r.Present {
		return "not entered"
	}
	return fmt.Sprintf("%g", r.Value)
}
