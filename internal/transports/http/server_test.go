package http_transport

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/sheet-relay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestApp(maxFileSize int64) *fiber.App {
	cfg := &config.Config{Upload: config.Upload{MaxFileSize: maxFileSize}}
	mainApp := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mainApp.Post("/echo", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"size": len(c.Body())})
	})
	mainApp.Get("/boom", func(c fiber.Ctx) error {
		panic("index out of range")
	})
	return mainApp
}

func TestBodyLimit(t *testing.T) {
	assert.Equal(t, math.MaxInt32, BodyLimit(0))
	assert.Equal(t, math.MaxInt32, BodyLimit(-1))
	assert.Equal(t, math.MaxInt32, BodyLimit(math.MaxInt64))
	assert.Equal(t, 1024+multipartOverhead, BodyLimit(1024))
}

func TestNewApp_UnlimitedFileSizeAcceptsLargeBodies(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 3<<20)

	res, err := newTestApp(0).Test(httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(body)))
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, int64(3<<20), gjson.GetBytes(raw, "size").Int())
}

func TestNewApp_RecoversFromPanics(t *testing.T) {
	mainApp := newTestApp(0)

	res, err := mainApp.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "internal", gjson.GetBytes(raw, "error.kind").String())

	res, err = mainApp.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}
