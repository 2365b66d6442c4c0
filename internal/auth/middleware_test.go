package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

func newMiddlewareApp(t *testing.T, store PermissionReader) *fiber.App {
	t.Helper()

	sessions := session.New(nil, config.Session{ExpiryTime: time.Minute, CookieName: "session", SameSite: "Lax"}, false)
	resolver := NewResolver(store, nil, permission.Policy{}, nil)

	app := fiber.New()

	// test helper to log in as any role
	app.Get("/as", func(c *fiber.Ctx) error {
		_, err := sessions.Write(c, &session.Data{User: session.User{ID: 7, Username: "tester", Role: permission.Role(c.Query("role"))}})
		return err
	})

	protected := app.Group("/roles", RequireSession(sessions))
	protected.Get("/list", RequirePermission(resolver, permission.ModuleRoles, permission.ActionView), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	protected.Get("/broken", RequirePermission(resolver, "Unknown", permission.ActionView), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func loginAs(t *testing.T, app *fiber.App, role string) *http.Cookie {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/as?role="+url.QueryEscape(role), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}

	t.Fatal("no session cookie")

	return nil
}

func get(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestRequireSession(t *testing.T) {
	app := newMiddlewareApp(t, newFakeStore())

	status, _ := get(t, app, "/roles/list", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = get(t, app, "/roles/list", &http.Cookie{Name: "session", Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRequirePermission(t *testing.T) {
	store := newFakeStore()
	store.sets["Rol"] = permission.Set{permission.ModuleRoles: {permission.ActionView: true}}

	app := newMiddlewareApp(t, store)

	testCases := []struct {
		name       string
		role       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"super admin", "Super Admin", "/roles/list", http.StatusOK, "ok"},
		{"granted by stored set", "Rol", "/roles/list", http.StatusOK, "ok"},
		{"not granted", "Bayi", "/roles/list", http.StatusForbidden, "Access denied"},
		{"legacy admin has no role management", "Admin", "/roles/list", http.StatusForbidden, "Access denied"},
		{"misconfigured route", "Super Admin", "/roles/broken", http.StatusInternalServerError, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cookie := loginAs(t, app, tc.role)

			status, body := get(t, app, tc.path, cookie)
			assert.Equal(t, tc.wantStatus, status)
			assert.Contains(t, body, tc.wantBody)
		})
	}
}

func TestRequirePermission_StorageFailureIsUnavailable(t *testing.T) {
	app := newMiddlewareApp(t, &fakeStore{err: errDown})

	cookie := loginAs(t, app, "Bayi")

	status, _ := get(t, app, "/roles/list", cookie)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
