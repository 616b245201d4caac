package internal

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/crudkit/pkg/cookie"
	"github.com/dmitrymomot/crudkit/pkg/token"
)

// Session is the per-visitor server-side record. It exists so mutating
// flows can bind state to the visitor instead of to cookies alone; the
// CSRF token lives here when the session-bound CSRF shape is enabled.
type Session struct {
	// Key is the random cookie token identifying the session.
	Key string

	// CSRFToken is minted once at session creation.
	CSRFToken string

	// Flash carries a flash across one redirect. When sessions are
	// enabled, responses park their flash here instead of in the
	// cookie-correlated store; the middleware consumes it on the next
	// request.
	Flash *Flash

	// EditBackURL remembers the page that linked to the edit form. The
	// form's cancel link points back there.
	EditBackURL string

	// Values is free-form per-visitor state for host callbacks.
	Values map[string]any

	CreatedAt  time.Time
	LastSeenAt time.Time
}

// SessionStore is the persistence seam for sessions. The built-in
// memoryStore keeps them in a mutex-guarded map; hosts that need
// cross-process sessions can plug in their own.
type SessionStore interface {
	Get(key string) (*Session, bool)
	Put(sess *Session)
	Delete(key string)
	// DeleteIdleSince removes sessions not seen since the cutoff and
	// returns how many were removed.
	DeleteIdleSince(cutoff time.Time) int
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (s *memoryStore) Get(key string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	return sess, ok
}

func (s *memoryStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Key] = sess
}

func (s *memoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

func (s *memoryStore) DeleteIdleSince(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, sess := range s.sessions {
		if sess.LastSeenAt.Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

type sessionContextKey struct{}

// sessionManager resolves or creates the visitor session on every
// request. Idle sessions are dropped lazily: a sweep runs inline at most
// once per sweepEvery, so no background goroutine is needed.
type sessionManager struct {
	store      SessionStore
	cookieName string
	ttl        time.Duration
	sweepEvery time.Duration
	cookies    *cookie.Manager
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	lastSweep time.Time
}

func newSessionManager(store SessionStore, cookieName string, ttl, sweepEvery time.Duration, cookies *cookie.Manager, logger *slog.Logger) *sessionManager {
	if store == nil {
		store = newMemoryStore()
	}
	return &sessionManager{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		sweepEvery: sweepEvery,
		cookies:    cookies,
		logger:     logger,
		now:        time.Now,
	}
}

// Middleware attaches the resolved session to the request context. A
// missing or expired session is replaced with a fresh one and the cookie
// is rotated.
func (m *sessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.maybeSweep()

		sess, fresh, err := m.resolve(r)
		if err != nil {
			m.logger.Error("failed to create session", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if fresh {
			m.cookies.Set(w, m.cookieName, sess.Key, int(m.ttl.Seconds()))
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)

		// A flash parked in the session is consumed here, exactly once,
		// the same way the cookie-correlated store consumes its entries.
		if sess.Flash != nil {
			flash := *sess.Flash
			sess.Flash = nil
			m.store.Put(sess)
			ctx = context.WithValue(ctx, flashContextKey{}, &flash)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *sessionManager) resolve(r *http.Request) (sess *Session, fresh bool, err error) {
	now := m.now()
	key := cookie.ExtractFromHeader(r.Header.Get("Cookie"), m.cookieName)
	if key != "" {
		if found, ok := m.store.Get(key); ok {
			if now.Sub(found.LastSeenAt) <= m.ttl {
				found.LastSeenAt = now
				m.store.Put(found)
				return found, false, nil
			}
			m.store.Delete(key)
		}
	}

	newKey, err := token.New()
	if err != nil {
		return nil, false, err
	}
	csrfToken, err := token.New()
	if err != nil {
		return nil, false, err
	}
	sess = &Session{
		Key:        newKey,
		CSRFToken:  csrfToken,
		Values:     make(map[string]any),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	m.store.Put(sess)
	return sess, true, nil
}

// maybeSweep drops idle sessions, at most once per sweep interval.
func (m *sessionManager) maybeSweep() {
	now := m.now()

	m.mu.Lock()
	due := now.Sub(m.lastSweep) >= m.sweepEvery
	if due {
		m.lastSweep = now
	}
	m.mu.Unlock()
	if !due {
		return
	}

	if removed := m.store.DeleteIdleSince(now.Add(-m.ttl)); removed > 0 {
		m.logger.Debug("swept idle sessions", "removed", removed)
	}
}

func sessionFromRequest(r *http.Request) *Session {
	sess, _ := r.Context().Value(sessionContextKey{}).(*Session)
	return sess
}
