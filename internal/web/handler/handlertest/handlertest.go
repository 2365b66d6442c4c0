// Package handlertest builds an in-memory panel for handler tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BayiPanel/BayiPanel/internal/auth"
	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/db/controller/role"
	"github.com/BayiPanel/BayiPanel/internal/db/models"
	"github.com/BayiPanel/BayiPanel/internal/permission"
	"github.com/BayiPanel/BayiPanel/internal/web/handler"
	"github.com/BayiPanel/BayiPanel/internal/web/session"
)

// CookieName is the session cookie of the test panel.
const CookieName = "session"

const loginAsPath = "/_test/login-as"

// Env is a panel backed by in-memory sqlite and in-memory sessions.
type Env struct {
	App   *fiber.App
	DB    *gorm.DB
	Store *role.Store
	Deps  handler.Deps
}

// Reply is a decoded response envelope.
type Reply struct {
	Status  int             `json:"-"`
	Cookies []*http.Cookie  `json:"-"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Decode unmarshals the data of the reply into out.
func (r Reply) Decode(t *testing.T, out any) {
	t.Helper()

	require.NoError(t, json.Unmarshal(r.Data, out), "data: %s", r.Data)
}

// New creates the test panel. The built-in roles exist without stored sets.
func New(t *testing.T, perm config.Permission) *Env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg := &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
			Session: config.Session{
				ExpiryTime: time.Minute,
				CookieName: CookieName,
				SameSite:   "Lax",
			},
		},
		Permission: perm,
	}

	store := role.New(db, nil)
	resolver := auth.NewResolver(store, nil, permission.Policy{AdminIsSuperAdmin: perm.AdminIsSuperAdmin}, nil)

	env := &Env{
		App:   fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler}),
		DB:    db,
		Store: store,
		Deps: handler.Deps{
			Config:      cfg,
			Sessions:    session.New(nil, cfg.Webserver.Session, false),
			Users:       auth.NewLocalProvider(db),
			Permissions: auth.NewService(store, resolver, perm),
		},
	}

	for _, r := range []permission.Role{permission.RoleSuperAdmin, permission.RoleAdmin} {
		_, err = store.EnsureRole(context.Background(), r, "", true)
		require.NoError(t, err)
	}

	env.App.Get(loginAsPath, env.loginAs)

	return env
}

// AddUser creates an active user holding roleName, creating the role when needed.
func (e *Env) AddUser(t *testing.T, username, password string, roleName permission.Role) *models.User {
	t.Helper()

	ctx := context.Background()

	r, err := e.Store.GetRoleByName(ctx, roleName)
	if errors.Is(err, role.ErrRoleNotFound) {
		r, err = e.Store.CreateRole(ctx, string(roleName), "")
	}

	require.NoError(t, err)

	user, err := e.Deps.Users.CreateUser(ctx, username, "", password, r.ID)
	require.NoError(t, err)

	return user
}

// SetPermissions stores a set for roleName.
func (e *Env) SetPermissions(t *testing.T, roleName permission.Role, set permission.Set) {
	t.Helper()

	require.NoError(t, e.Store.SetPermissions(context.Background(), roleName, set))
}

func (e *Env) loginAs(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		return fiber.ErrBadRequest
	}

	_, err = e.Deps.Sessions.Write(c, &session.Data{User: session.User{
		ID:       id,
		Username: c.Query("username"),
		Role:     permission.Role(c.Query("role")),
	}})

	return err
}

// LoginAs opens a session for user without checking a password.
func (e *Env) LoginAs(t *testing.T, user *models.User, roleName permission.Role) *http.Cookie {
	t.Helper()

	q := url.Values{
		"id":       {strconv.FormatUint(user.ID, 10)},
		"username": {user.Username},
		"role":     {string(roleName)},
	}

	resp, err := e.App.Test(httptest.NewRequest(http.MethodGet, loginAsPath+"?"+q.Encode(), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return SessionCookie(t, resp)
}

// SessionCookie returns the session cookie set by resp.
func SessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	return findCookie(t, resp.Cookies())
}

// SessionCookie returns the session cookie set by the reply.
func (r Reply) SessionCookie(t *testing.T) *http.Cookie {
	t.Helper()

	return findCookie(t, r.Cookies)
}

func findCookie(t *testing.T, cookies []*http.Cookie) *http.Cookie {
	t.Helper()

	for _, c := range cookies {
		if c.Name == CookieName {
			return c
		}
	}

	t.Fatal("no session cookie in response")

	return nil
}

// Do sends a request with an optional JSON body and session cookie.
// A []byte body is sent as is.
func (e *Env) Do(t *testing.T, method, target string, body any, cookie *http.Cookie) Reply {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	reply := Reply{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &reply), "body: %s", raw)
	}

	reply.Status = resp.StatusCode
	reply.Cookies = resp.Cookies()

	return reply
}
