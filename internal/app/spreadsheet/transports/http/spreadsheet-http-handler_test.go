package spreadsheet_http_handler

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	export_service "github.com/init-pkg/sheet-relay/internal/app/export/service"
	spreadsheet_service "github.com/init-pkg/sheet-relay/internal/app/spreadsheet/service"
	"github.com/init-pkg/sheet-relay/internal/config"
	http_transport "github.com/init-pkg/sheet-relay/internal/transports/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

const stockCSV = "sku,qty\nA-1,3\nB-2,1\nA-1,3\n"

func newApp() *fiber.App {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Upload: config.Upload{MaxFileSize: 1 << 20}}

	handler := New(cfg, spreadsheet_service.New(cfg, log), export_service.New(log))
	mainApp := http_transport.NewApp(cfg, log)
	http_transport.Mount(mainApp, []http_transport.HttpHandler{handler})
	return mainApp
}

func send(t *testing.T, target, fileName, content string, fields map[string]string) (*http.Response, []byte) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	res, err := newApp().Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, out
}

func TestPreview(t *testing.T) {
	res, body := send(t, "/spreadsheets/preview", "stock.csv", stockCSV, nil)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `["sku","qty"]`, gjson.GetBytes(body, "header").Raw)
	assert.Equal(t, `[["A-1",3],["B-2",1],["A-1",3]]`, gjson.GetBytes(body, "rows").Raw)
	assert.Equal(t, `[0,2]`, gjson.GetBytes(body, "detection.duplicates").Raw)
	assert.Equal(t, int64(1), gjson.GetBytes(body, "detection.unique_count").Int())
}

func TestPreview_Errors(t *testing.T) {
	res, body := send(t, "/spreadsheets/preview", "", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "invalid_input", gjson.GetBytes(body, "error.kind").String())

	res, body = send(t, "/spreadsheets/preview", "broken.xlsx", "not a workbook", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Equal(t, "decode", gjson.GetBytes(body, "error.kind").String())
}

func TestExport_CSVDefaults(t *testing.T) {
	res, body := send(t, "/spreadsheets/export", "stock.csv", stockCSV, nil)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Contains(t, res.Header.Get("Content-Disposition"), "cleaned_stock.csv")
	assert.Equal(t, "sku,qty\nB-2,1\n", string(body))
}

func TestExport_CSVRoundTripKeepsText(t *testing.T) {
	input := "007,zip,price\n00123,01010,1.50\n0042,99999,2\n00123,01010,1.50\n0042,1e5,TRUE\n"

	res, body := send(t, "/spreadsheets/export", "codes.csv", input, map[string]string{"mode": "first"})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "007,zip,price\n00123,01010,1.50\n0042,99999,2\n0042,1e5,TRUE\n", string(body))
}

func TestExport_XLSXFirst(t *testing.T) {
	res, body := send(t, "/spreadsheets/export", "stock.csv", stockCSV, map[string]string{
		"format": "xlsx",
		"mode":   "first",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"sku", "qty"}, {"A-1", "3"}, {"B-2", "1"}}, got)
}

func TestExport_InvalidMode(t *testing.T) {
	res, body := send(t, "/spreadsheets/export", "stock.csv", stockCSV, map[string]string{"mode": "latest"})

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "invalid_input", gjson.GetBytes(body, "error.kind").String())
}
