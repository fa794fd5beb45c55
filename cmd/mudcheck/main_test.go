package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEval_Text(t *testing.T) {
	out, err := run(t, "eval", "--pf", "3", "--mf", "10", "--hardness", "400", "--calcium", "oops")
	require.NoError(t, err)

	assert.Contains(t, out, "Zone: Bicarbonate + Carbonate")
	assert.Contains(t, out, "Lime: 3.00")
	assert.Contains(t, out, "- Low Hardness")
	assert.Contains(t, out, "Not entered (treated as 0): pm, calcium")
}

func TestEval_JSONWithProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calibrations:\n  - name: chart-1000\n    excess_calcium_divisor: 1000\n"), 0o600))

	out, err := run(t, "--calibration", path, "--profile", "chart-1000", "eval", "--calcium", "1500", "--hardness", "500", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"calcium_adjustment": 1`)
	assert.Contains(t, out, `"calibration": "chart-1000"`)
}

func TestEval_UnknownProfile(t *testing.T) {
	_, err := run(t, "--profile", "nope", "eval")
	assert.Error(t, err)
}

func TestBatch_CSV(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "checks.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"pm", "pf", "mf", "calcium", "hardness"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1, 3, 10, 20, 600}))
	require.NoError(t, f.SaveAs(book))
	require.NoError(t, f.Close())

	out, err := run(t, "batch", book)
	require.NoError(t, err)
	assert.Equal(t, "pm,pf,mf,calcium,hardness,hydroxide,carbonate,bicarbonate\n1,3,10,20,600,0,3600,4880\n", out)

	_, err = run(t, "batch", book, "--format", "xlsx")
	assert.Error(t, err)

	outPath := filepath.Join(dir, "out.xlsx")
	_, err = run(t, "batch", book, "--format", "xlsx", "--out", outPath)
	require.NoError(t, err)
	_, err = os.Stat(outPath)
	assert.NoError(t, err)
}
