// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	stdContext "context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session is a request-scoped, key-value bag persisted across requests by a SessionStore.
type Session struct {
	ID        string
	Data      map[string]any
	ExpiresAt time.Time
	mu        sync.RWMutex
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Data[key]
	return v, ok
}

// Set stores a value in the session.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Data[key] = value
}

// Delete removes a value from the session.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Data, key)
}

// SessionOptions configures a SessionStore's cookie and expiry behavior.
type SessionOptions struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
	HTTPOnly   bool
	SameSite   http.SameSite
	Path       string
	Domain     string
}

// DefaultSessionOptions returns sane session cookie defaults.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		CookieName: "session_id",
		MaxAge:     24 * time.Hour,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

func (o SessionOptions) cookie(id string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     o.CookieName,
		Value:    id,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   maxAge,
		Secure:   o.Secure,
		HttpOnly: o.HTTPOnly,
		SameSite: o.SameSite,
	}
}

// SessionBackend persists session contents keyed by session ID. MemorySessionStore and
// RedisSessionStore are the two backends provided; either can sit behind SessionStore.
type SessionBackend interface {
	Load(ctx stdContext.Context, id string) (map[string]any, bool, error)
	Save(ctx stdContext.Context, id string, data map[string]any, maxAge time.Duration) error
	Delete(ctx stdContext.Context, id string) error
}

// SessionStore mediates between the session cookie on a Context and a SessionBackend.
type SessionStore struct {
	backend SessionBackend
	options SessionOptions
}

// NewSessionStore creates a SessionStore over backend with the given options.
func NewSessionStore(backend SessionBackend, options SessionOptions) *SessionStore {
	return &SessionStore{backend: backend, options: options}
}

// Get loads the session named by c's cookie, creating a fresh one if absent or expired.
func (s *SessionStore) Get(c *Context) (*Session, error) {
	if cookie, err := c.Cookie(s.options.CookieName); err == nil {
		data, ok, err := s.backend.Load(c.Request().Context(), cookie.Value)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Session{ID: cookie.Value, Data: data, ExpiresAt: time.Now().Add(s.options.MaxAge)}, nil
		}
	}
	return s.New(), nil
}

// New creates and registers a fresh, empty session.
func (s *SessionStore) New() *Session {
	return &Session{ID: generateSessionID(), Data: map[string]any{}, ExpiresAt: time.Now().Add(s.options.MaxAge)}
}

// Save persists sess via the backend and sets the session cookie on c's response.
func (s *SessionStore) Save(c *Context, sess *Session) error {
	sess.mu.RLock()
	data := make(map[string]any, len(sess.Data))
	for k, v := range sess.Data {
		data[k] = v
	}
	sess.mu.RUnlock()

	if err := s.backend.Save(c.Request().Context(), sess.ID, data, s.options.MaxAge); err != nil {
		return err
	}
	c.SetCookie(s.options.cookie(sess.ID, int(s.options.MaxAge.Seconds())))
	return nil
}

// Destroy removes the session named by c's cookie, from both the backend and the browser.
func (s *SessionStore) Destroy(c *Context) error {
	cookie, err := c.Cookie(s.options.CookieName)
	if err != nil {
		return nil
	}
	if err := s.backend.Delete(c.Request().Context(), cookie.Value); err != nil {
		return err
	}
	c.SetCookie(s.options.cookie("", -1))
	return nil
}

func generateSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// MemorySessionStore is an in-process, lock-protected SessionBackend. Suitable for
// single-instance deployments and tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySessionEntry
}

type memorySessionEntry struct {
	data      map[string]any
	expiresAt time.Time
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]memorySessionEntry{}}
}

func (m *MemorySessionStore) Load(_ stdContext.Context, id string) (map[string]any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *MemorySessionStore) Save(_ stdContext.Context, id string, data map[string]any, maxAge time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = memorySessionEntry{data: data, expiresAt: time.Now().Add(maxAge)}
	return nil
}

func (m *MemorySessionStore) Delete(_ stdContext.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// RedisSessionStore is a SessionBackend backed by a Redis instance, so sessions survive
// process restarts and can be shared across multiple App instances behind a load balancer.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisSessionStore wraps an existing go-redis client. Keys are stored under prefix+id.
func NewRedisSessionStore(rdb *redis.Client, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisSessionStore{rdb: rdb, prefix: prefix}
}

func (r *RedisSessionStore) key(id string) string { return r.prefix + id }

func (r *RedisSessionStore) Load(ctx stdContext.Context, id string) (map[string]any, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisSessionStore) Save(ctx stdContext.Context, id string, data map[string]any, maxAge time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(id), raw, maxAge).Err()
}

func (r *RedisSessionStore) Delete(ctx stdContext.Context, id string) error {
	return r.rdb.Del(ctx, r.key(id)).Err()
}
