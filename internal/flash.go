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

// Flash is the payload carried across exactly one redirect: a success
// message, a validation error to re-render a form with, or both.
type Flash struct {
	// Message is a success notice shown once on the next page.
	Message string

	// Error carries validation faults and the attempted payload back to
	// the form.
	Error *ValidationError
}

type flashEntry struct {
	data      Flash
	createdAt time.Time
}

type flashContextKey struct{}

// flashManager stores flash payloads server side, correlated to the
// visitor by a random cookie token. Entries are consumed on first read
// and swept by age on every write, so the map never outlives its demand.
type flashManager struct {
	mu      sync.Mutex
	entries map[string]flashEntry

	cookieName string
	maxAge     time.Duration
	cookies    *cookie.Manager
	logger     *slog.Logger
	now        func() time.Time
}

func newFlashManager(cookieName string, maxAge time.Duration, cookies *cookie.Manager, logger *slog.Logger) *flashManager {
	return &flashManager{
		entries:    make(map[string]flashEntry),
		cookieName: cookieName,
		maxAge:     maxAge,
		cookies:    cookies,
		logger:     logger,
		now:        time.Now,
	}
}

// Middleware consumes any pending flash before the handler runs: the
// entry is deleted from the store, the cookie is cleared, and the payload
// is stashed in the request context for exactly this request. A second
// request with the same token finds nothing.
func (m *flashManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := cookie.ExtractFromHeader(r.Header.Get("Cookie"), m.cookieName)
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}

		flash, ok := m.consume(tok)
		m.cookies.Delete(w, m.cookieName)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), flashContextKey{}, &flash)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *flashManager) consume(tok string) (Flash, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[tok]
	if !ok {
		return Flash{}, false
	}
	delete(m.entries, tok)
	if m.now().Sub(entry.createdAt) > m.maxAge {
		return Flash{}, false
	}
	return entry.data, true
}

// Set stores a flash for the next request and points the visitor at it
// with a fresh single-use token. Expired entries are swept first, which
// bounds the store even when visitors abandon redirects.
func (m *flashManager) Set(w http.ResponseWriter, data Flash) {
	tok, err := token.New()
	if err != nil {
		m.logger.Error("failed to generate flash token", "error", err)
		return
	}

	m.mu.Lock()
	now := m.now()
	for key, entry := range m.entries {
		if now.Sub(entry.createdAt) > m.maxAge {
			delete(m.entries, key)
		}
	}
	m.entries[tok] = flashEntry{data: data, createdAt: now}
	m.mu.Unlock()

	m.cookies.Set(w, m.cookieName, tok, int(m.maxAge.Seconds()))
}

func (m *flashManager) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func flashFromRequest(r *http.Request) *Flash {
	flash, _ := r.Context().Value(flashContextKey{}).(*Flash)
	return flash
}
