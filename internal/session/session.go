// Package session keeps per-browser state in a signed, client-held cookie.
// The cookie is an HS256 JWT; the server stores nothing.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"rjcreations/internal/domain"
)

const (
	CookieName = "session"
	localsKey  = "session"
)

// Session is the per-request state handlers read and mutate. Mutations mark it dirty so
// the middleware re-signs the cookie on the way out.
type Session struct {
	ID     string
	UserID int64
	Cart   domain.Cart
	Flash  []string
	dirty  bool
}

func newSession() *Session {
	return &Session{ID: uuid.NewString(), Cart: domain.Cart{}, dirty: true}
}

func (s *Session) Authenticated() bool { return s.UserID != 0 }

// Login attaches the principal and rotates the session id.
func (s *Session) Login(userID int64) {
	s.UserID = userID
	s.ID = uuid.NewString()
	s.dirty = true
}

// Logout drops the principal. The cart survives.
func (s *Session) Logout() {
	s.UserID = 0
	s.ID = uuid.NewString()
	s.dirty = true
}

func (s *Session) SetCart(c domain.Cart) {
	s.Cart = c
	s.dirty = true
}

// MaxFlashes bounds the pending flash queue; the oldest message is dropped first.
const MaxFlashes = 5

// AddFlash queues msg unless the same message is already pending.
func (s *Session) AddFlash(msg string) {
	for _, m := range s.Flash {
		if m == msg {
			return
		}
	}
	if len(s.Flash) >= MaxFlashes {
		s.Flash = s.Flash[len(s.Flash)-MaxFlashes+1:]
	}
	s.Flash = append(s.Flash, msg)
	s.dirty = true
}

// Flashes returns pending messages and clears them.
func (s *Session) Flashes() []string {
	if len(s.Flash) == 0 {
		return nil
	}
	out := s.Flash
	s.Flash = nil
	s.dirty = true
	return out
}

type claims struct {
	UserID int64       `json:"uid,omitempty"`
	Cart   domain.Cart `json:"cart,omitempty"`
	Flash  []string    `json:"flash,omitempty"`
	jwt.RegisteredClaims
}

var ErrInvalid = errors.New("invalid session")

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

func (m *Manager) Encode(s *Session) (string, error) {
	now := time.Now()
	c := claims{
		UserID: s.UserID,
		Cart:   s.Cart,
		Flash:  s.Flash,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *Manager) Decode(token string) (*Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.ID == "" {
		return nil, ErrInvalid
	}
	s := &Session{ID: c.ID, UserID: c.UserID, Cart: c.Cart, Flash: c.Flash}
	if s.Cart == nil {
		s.Cart = domain.Cart{}
	}
	return s, nil
}

// Middleware loads the session (a fresh one when the cookie is absent or fails
// verification) and writes it back if a handler changed it.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := m.Decode(c.Cookies(CookieName))
		if err != nil {
			s = newSession()
		}
		c.Locals(localsKey, s)

		herr := c.Next()
		if s.dirty {
			if err := m.save(c, s); err != nil {
				return err
			}
		}
		return herr
	}
}

func (m *Manager) save(c *fiber.Ctx, s *Session) error {
	tok, err := m.Encode(s)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   m.secure,
	})
	s.dirty = false
	return nil
}

// From returns the request's session. Outside the middleware it returns a throwaway one.
func From(c *fiber.Ctx) *Session {
	if s, ok := c.Locals(localsKey).(*Session); ok && s != nil {
		return s
	}
	return newSession()
}
