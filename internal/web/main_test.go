package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web/handler/handlertest"
)

func newTestService(t *testing.T) (*Service, *handlertest.Env) {
	t.Helper()

	env := handlertest.New(t, config.Permission{PreventSelfLockout: true})

	cfg := *env.Deps.Config
	cfg.Title = "BayiPanel"
	cfg.Webserver.ShutDownTime = 0

	s, err := New(&cfg, env.Deps)
	require.NoError(t, err)

	return s, env
}

func request(t *testing.T, s *Service, method, target, body string, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(raw)
}

func TestCheckAlive(t *testing.T) {
	s, _ := newTestService(t)
	assert.True(t, s.Alive())
	assert.True(t, s.fastShutDown)

	resp, _ := request(t, s, http.MethodGet, CheckAlivePath, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	s.alive.Store(false)

	resp, _ = request(t, s, http.MethodGet, CheckAlivePath, "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	s, _ := newTestService(t)

	resp, body := request(t, s, http.MethodGet, MetricsPath, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s, _ := newTestService(t)

	resp, body := request(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"Cannot GET /nope"}`, body)
}

func TestLoginThenResolve(t *testing.T) {
	s, env := newTestService(t)

	env.AddUser(t, "dealer", "s3cr3t", "Bayi")
	env.SetPermissions(t, "Bayi", permission.Set{
		permission.ModuleMileage: {permission.ActionView: true},
	})

	resp, body := request(t, s, http.MethodPost, "/api/login", `{"username":"dealer","password":"s3cr3t"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	cookie := handlertest.SessionCookie(t, resp)

	resp, body = request(t, s, http.MethodGet, "/roles/check?module=Kilometre-Hacker&action=view", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"success":true,"data":{"allowed":true}}`, body)

	resp, body = request(t, s, http.MethodGet, "/roles", "", cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"Access denied: view permission on Rol-Yonetimi is required"}`, body)
}

func TestRecoverAnswersEnvelope(t *testing.T) {
	s, _ := newTestService(t)
	s.App.Get("/panic", func(_ *fiber.Ctx) error {
		panic("boom")
	})

	resp, body := request(t, s, http.MethodGet, "/panic", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, body)
}
