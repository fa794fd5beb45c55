package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Mudcheck/internal/calc/alkalinity"
	"Mudcheck/internal/calc/mudcheck"
	"Mudcheck/internal/calc/premium/batch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestReadSamples(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"pm", "pf", "mf", "calcium", "hardness"},
		{1.0, 3.0, 10.0, 20.0, 600.0},
		{nil, nil, nil},
		{"", "0", "x", "40"},
	})

	got, err := ReadSamples(buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, mudcheck.NewSample(1, 3, 10, 20, 600), got[0])
	assert.Equal(t, mudcheck.Sample{Pf: mudcheck.Of(0), Calcium: mudcheck.Of(40)}, got[1])
}

func TestReadSamples_Empty(t *testing.T) {
	buf := workbook(t, [][]interface{}{{"pm", "pf", "mf"}})
	_, err := ReadSamples(buf)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestReadSamples_NotAWorkbook(t *testing.T) {
	_, err := ReadSamples(bytes.NewBufferString("pm,pf\n1,2\n"))
	assert.Error(t, err)
}

func TestHandler_Import(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"pm", "pf", "mf", "calcium", "hardness"},
		{0.0, 0.0, 10.0, 0.0, 400.0},
		{0.0, 5.0, 5.0, 0.0, 900.0},
	})
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "checks.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tools/mudcheck/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	h := &Handler{Batch: &batch.Handler{Workers: 2}}
	h.Import(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res batch.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.Equal(t, 2, res.Count)
	assert.Equal(t, alkalinity.ZoneBicarbonateOnly, res.Results[0].Species.Zone)
	assert.Equal(t, alkalinity.ZoneHydroxideOnly, res.Results[1].Species.Zone)
}

func TestHandler_ImportMissingFile(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Import(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
