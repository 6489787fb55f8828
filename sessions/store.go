package sessions

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultCookieName is the session cookie name when none is configured.
	DefaultCookieName = "vantage_session"

	// minSecretLen guards against trivially brute-forceable signing keys.
	minSecretLen = 16
)

// CookieSetter is the subset of a response needed to persist a session.
// web.Response satisfies it.
type CookieSetter interface {
	SetCookie(*http.Cookie)
}

// Store signs and verifies session cookies.
type Store struct {
	secret     []byte
	cookieName string
	maxAge     int
	secure     bool
	sameSite   http.SameSite
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) StoreOption {
	return func(s *Store) { s.cookieName = name }
}

// WithMaxAge sets the cookie lifetime in seconds. Zero means session cookie.
func WithMaxAge(seconds int) StoreOption {
	return func(s *Store) { s.maxAge = seconds }
}

// WithSecure marks the cookie Secure (HTTPS only).
func WithSecure(secure bool) StoreOption {
	return func(s *Store) { s.secure = secure }
}

// WithSameSite sets the cookie SameSite policy.
func WithSameSite(mode http.SameSite) StoreOption {
	return func(s *Store) { s.sameSite = mode }
}

// NewStore creates a session store signing with secret.
func NewStore(secret string, opts ...StoreOption) (*Store, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d bytes, got %d", minSecretLen, len(secret))
	}

	s := &Store{
		secret:     []byte(secret),
		cookieName: DefaultCookieName,
		sameSite:   http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads the session from the request cookie. A missing, malformed, or
// tampered cookie yields a fresh empty session.
func (s *Store) Load(r *http.Request) *Session {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return newSession(nil)
	}

	values, ok := s.decode(c.Value)
	if !ok {
		return newSession(nil)
	}
	return newSession(values)
}

// Save writes the session cookie if the session was modified. Unmodified
// sessions produce no Set-Cookie header.
func (s *Store) Save(w CookieSetter, sess *Session) error {
	if sess == nil || !sess.Modified() {
		return nil
	}

	encoded, err := s.encode(sess.snapshot())
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	w.SetCookie(&http.Cookie{
		Name:     s.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   s.maxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: s.sameSite,
	})
	return nil
}

// CookieName returns the configured session cookie name.
func (s *Store) CookieName() string {
	return s.cookieName
}

func (s *Store) encode(values map[string]any) (string, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return "", err
	}

	body := base64.RawURLEncoding.EncodeToString(payload)
	sig := s.sign(body)
	return body + "." + sig, nil
}

func (s *Store) decode(raw string) (map[string]any, bool) {
	body, sig, found := strings.Cut(raw, ".")
	if !found {
		return nil, false
	}

	expected := s.sign(body)
	if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) != 1 {
		return nil, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, false
	}

	var values map[string]any
	if err := json.Unmarshal(payload, &values); err != nil {
		return nil, false
	}
	return values, true
}

func (s *Store) sign(body string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
