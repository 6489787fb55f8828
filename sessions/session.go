// Package sessions implements signed cookie sessions: the session payload is
// serialized to JSON, authenticated with HMAC-SHA256, and stored client-side
// in a single cookie. Tampered or malformed cookies yield a fresh empty
// session rather than an error, so requests never fail on bad session data.
package sessions

import "sync"

// Session is a per-request key/value bag. It tracks modification so stores
// only write the cookie when something actually changed.
type Session struct {
	mu       sync.Mutex
	values   map[string]any
	modified bool
}

// Detached returns a session not backed by any store. Modifications are
// kept for the request's lifetime but never persisted. Used when an
// application runs without a session store configured.
func Detached() *Session {
	return newSession(nil)
}

func newSession(values map[string]any) *Session {
	if values == nil {
		values = make(map[string]any)
	}
	return &Session{values: values}
}

// Get returns the value stored under key, or nil.
func (s *Session) Get(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// GetString returns the value under key if it is a string.
func (s *Session) GetString(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key].(string)
	return v, ok
}

// Set stores a value and marks the session modified.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.modified = true
}

// Delete removes a key. Deleting an absent key does not mark the session
// modified.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.modified = true
	}
}

// Flush removes everything from the session.
func (s *Session) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]any)
	s.modified = true
}

// Keys returns the keys currently stored, in no particular order.
func (s *Session) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Modified reports whether the session changed since it was loaded.
func (s *Session) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified
}

func (s *Session) snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
