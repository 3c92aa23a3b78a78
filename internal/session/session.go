// Package session keeps short-lived per-browser state in a signed and
// encrypted cookie: flash messages and the pending checkout snapshot.
//
// Identity is not stored here; the auth package owns the login cookie.
package session

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

const (
	cookieName  = "shop_session"
	checkoutKey = "checkout"
)

// Values stored in a session must be registered with gob.
func init() {
	gob.Register(Flash{})
	gob.Register(model.Checkout{})
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string // "error" or "info"
	Message string
}

// ErrNoCheckout is returned by TakeCheckout when nothing is pending.
var ErrNoCheckout = errors.New("session: no pending checkout")

// Manager reads and writes the session cookie.
type Manager struct {
	store sessions.Store
}

// NewManager builds a cookie-backed manager. hashKey signs the cookie and,
// when 16, 24 or 32 bytes long, blockKey encrypts it; pass nil blockKey to
// sign only.
func NewManager(hashKey, blockKey []byte, secure bool) *Manager {
	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.MaxAge = 86400
	return &Manager{store: store}
}

type cacheKey struct{}

// cache holds the session decoded for one request.
type cache struct {
	s *sessions.Session
}

// Middleware makes every session read within a request share one decoded
// session. Without it, each call decodes the request cookie again and a later
// Save can resurrect a value an earlier Save removed.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), cacheKey{}, &cache{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// get returns the session, starting a fresh one when the cookie is missing
// or cannot be decoded (for instance after a key rotation).
func (m *Manager) get(r *http.Request) *sessions.Session {
	c, _ := r.Context().Value(cacheKey{}).(*cache)
	if c != nil && c.s != nil {
		return c.s
	}

	s, err := m.store.Get(r, cookieName)
	if err != nil {
		s, _ = m.store.New(r, cookieName)
		s.IsNew = true
	}
	if c != nil {
		c.s = s
	}
	return s
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error {
	s := m.get(r)
	s.AddFlash(Flash{Kind: kind, Message: message})
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("session: saving flash: %w", err)
	}
	return nil
}

// Flashes pops every pending flash. The session is saved so they are not
// shown twice; call before the response body is written.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fm, ok := f.(Flash); ok {
			flashes = append(flashes, fm)
		}
	}
	return flashes
}

// SetCheckout stores c as the pending checkout, replacing any earlier one.
func (m *Manager) SetCheckout(w http.ResponseWriter, r *http.Request, c *model.Checkout) error {
	s := m.get(r)
	s.Values[checkoutKey] = *c
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("session: saving checkout %s: %w", c.Reference, err)
	}
	return nil
}

// TakeCheckout removes and returns the pending checkout. The removal is saved
// before returning, so the same snapshot can only be taken once per browser.
func (m *Manager) TakeCheckout(w http.ResponseWriter, r *http.Request) (*model.Checkout, error) {
	s := m.get(r)
	c, ok := s.Values[checkoutKey].(model.Checkout)
	if !ok {
		return nil, ErrNoCheckout
	}

	delete(s.Values, checkoutKey)
	if err := s.Save(r, w); err != nil {
		return nil, fmt.Errorf("session: clearing checkout %s: %w", c.Reference, err)
	}
	return &c, nil
}
