package importer

import (
	"errors"
	"fmt"
	"io"

	"Mudcheck/internal/calc/mudcheck"

	"github.com/xuri/excelize/v2"
)

var ErrEmptySheet = errors.New("empty sheet")

// ReadSamples reads mud checks from the first sheet of an XLSX workbook.
// Row 1 is a header; columns are pm, pf, mf, calcium, hardness. Blank rows
// are skipped and short rows leave trailing readings absent.
func ReadSamples(r io.Reader) ([]mudcheck.Sample, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	var out []mudcheck.Sample
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		out = append(out, parseRow(row))
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

func parseRow(row []string) mudcheck.Sample {
	cell := func(i int) mudcheck.Reading {
		if i >= len(row) {
			return mudcheck.Reading{}
		}
		return mudcheck.ParseReading(row[i])
	}
	return mudcheck.Sample{
		Pm:       cell(0),
		Pf:       cell(1),
		Mf:       cell(2),
		Calcium:  cell(3),
		Hardness: cell(4),
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
