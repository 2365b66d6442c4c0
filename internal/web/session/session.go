// Package session keeps logged in users in a fiber storage backend.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"

	"github.com/BayiPanel/BayiPanel/internal/config"
	"github.com/BayiPanel/BayiPanel/internal/db/dsn"
	"github.com/BayiPanel/BayiPanel/internal/permission"
)

const (
	// LocalsKey is the fiber.Locals key holding the current *Data.
	LocalsKey = "session"

	tableName = "sessions"
	idBytes   = 32
)

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("no valid session")

// User is the part of a user account kept in the session.
type User struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Role     permission.Role `json:"role"`
}

// Data represents the session data structure.
type Data struct {
	User User `json:"user"`
}

// Sessions reads and writes session data keyed by the session cookie.
type Sessions struct {
	store  *session.Store
	cfg    config.Session
	secure bool
}

// New creates the session manager. A nil storage keeps sessions in memory.
// Cookies are marked secure unless secure is false (dev mode).
func New(storage fiber.Storage, cfg config.Session, secure bool) *Sessions {
	return &Sessions{
		store: session.New(session.Config{
			Storage:        storage,
			Expiration:     cfg.ExpiryTime,
			KeyLookup:      "cookie:" + cfg.CookieName,
			CookieSecure:   secure,
			CookieHTTPOnly: true,
			CookieSameSite: cfg.SameSite,
		}),
		cfg:    cfg,
		secure: secure,
	}
}

// NewStorage returns the session storage living next to the configured database.
// The sqlite engine gets nil, which means in-memory sessions.
func NewStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         tableName,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.URI(cfg),
			Table:         tableName,
		})
	default:
		return nil
	}
}

// Write stores data under a new session ID and sets the session cookie.
func (s *Sessions) Write(c *fiber.Ctx, data *Data) (string, error) {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	if err = s.store.Storage.Set(sessionID, out, s.cfg.ExpiryTime); err != nil {
		return "", err
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.ExpiryTime.Seconds()),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: s.cfg.SameSite,
	})

	return sessionID, nil
}

// Read loads the session referenced by the request cookie.
func (s *Sessions) Read(c *fiber.Ctx) (*Data, error) {
	sessionID := c.Cookies(s.cfg.CookieName)
	if sessionID == "" {
		return nil, ErrNoSession
	}

	raw, err := s.store.Storage.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, ErrNoSession
	}

	data := new(Data)
	if err = json.Unmarshal(raw, data); err != nil {
		return nil, err
	}

	if data.User.ID == 0 {
		return nil, ErrNoSession
	}

	return data, nil
}

// Destroy deletes the session and expires the cookie.
func (s *Sessions) Destroy(c *fiber.Ctx) error {
	var err error

	if sessionID := c.Cookies(s.cfg.CookieName); sessionID != "" {
		err = s.store.Storage.Delete(sessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: s.cfg.SameSite,
	})

	return err
}

// Close closes the storage backend.
func (s *Sessions) Close() error {
	return s.store.Storage.Close()
}

// FromLocals returns the session stored by the auth middleware.
func FromLocals(c *fiber.Ctx) (*Data, bool) {
	data, ok := c.Locals(LocalsKey).(*Data)

	return data, ok && data != nil
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
