package fiber

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BayiPanel/BayiPanel/internal/logger"
)

func newTestApp(buf *bytes.Buffer, cfg logger.Log) *fiber.App {
	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Generator: func() string { return "req-1" }}))
	app.Use(New(Config{Config: cfg, CheckAliveURI: "/checkalive", Output: buf}))

	app.Get("/roles", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/broken", func(_ *fiber.Ctx) error {
		return errors.New("store down") //nolint:goerr113
	})

	return app
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}

	return out
}

func TestAccessLog_WritesRequestLine(t *testing.T) {
	var buf bytes.Buffer

	app := newTestApp(&buf, logger.Log{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/roles?page=2", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Performance"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "/roles?page=2", lines[0]["URI"])
	assert.Equal(t, "GET", lines[0]["method"])
	assert.EqualValues(t, http.StatusOK, lines[0]["status"])
	assert.Equal(t, "req-1", lines[0]["request_id"])
}

func TestAccessLog_ErrorStatusIsLogged(t *testing.T) {
	var buf bytes.Buffer

	app := newTestApp(&buf, logger.Log{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/broken", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.EqualValues(t, http.StatusInternalServerError, lines[0]["status"])
	assert.Equal(t, "store down", lines[0]["error"])
}

func TestAccessLog_SkipsCheckAlive(t *testing.T) {
	var buf bytes.Buffer

	app := newTestApp(&buf, logger.Log{DisableCheckAlive: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/checkalive", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, buf.String())
}

func TestAccessLog_Next(t *testing.T) {
	var buf bytes.Buffer

	app := fiber.New()
	app.Use(New(Config{
		Output: &buf,
		Next:   func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/metrics") },
	}))
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendString("m") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, buf.String())
}
