package internal

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/crudkit/pkg/cookie"
	"github.com/dmitrymomot/crudkit/pkg/token"
)

type csrfContextKey struct{}

// csrfGuard enforces token checks on mutating requests. Two shapes:
//
//   - Double submit (sessions disabled): the expected token lives in its
//     own cookie and is minted on first contact.
//   - Session bound (sessions enabled): the expected token is the one
//     minted into the visitor session, so it survives cookie clearing
//     and never needs its own cookie.
//
// Safe verbs pass through with the token stashed in the request context
// so forms can embed it.
type csrfGuard struct {
	fieldName  string
	cookieName string
	cookies    *cookie.Manager
	maxAge     int
	logger     *slog.Logger

	// fail renders the shared error page; wired by the mount.
	fail func(w http.ResponseWriter, r *http.Request, err error)
}

func newCSRFGuard(fieldName, cookieName string, cookies *cookie.Manager, maxAge int, logger *slog.Logger) *csrfGuard {
	return &csrfGuard{
		fieldName:  fieldName,
		cookieName: cookieName,
		cookies:    cookies,
		maxAge:     maxAge,
		logger:     logger,
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Middleware runs after the session middleware (when sessions are on) so
// the session token is already resolved.
func (g *csrfGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected, fromSession := g.expectedToken(r)

		if isMutating(r.Method) {
			if err := r.ParseForm(); err != nil {
				g.fail(w, r, NewError(http.StatusBadRequest, "Malformed form body"))
				return
			}
			submitted := r.PostFormValue(g.fieldName)
			if !tokensMatch(expected, submitted) {
				g.logger.Warn("csrf token rejected",
					"path", r.URL.Path,
					"method", r.Method,
					"token_present", submitted != "",
				)
				g.fail(w, r, NewCSRFError())
				return
			}
		}

		if expected == "" && !fromSession {
			minted, err := token.New()
			if err != nil {
				g.logger.Error("failed to generate csrf token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			expected = minted
			g.cookies.Set(w, g.cookieName, minted, g.maxAge)
		}

		ctx := context.WithValue(r.Context(), csrfContextKey{}, expected)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// expectedToken resolves the token the submitted one must match. The
// session token wins when a session is present.
func (g *csrfGuard) expectedToken(r *http.Request) (tok string, fromSession bool) {
	if sess := sessionFromRequest(r); sess != nil {
		return sess.CSRFToken, true
	}
	return cookie.ExtractFromHeader(r.Header.Get("Cookie"), g.cookieName), false
}

func tokensMatch(expected, submitted string) bool {
	if expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

func csrfTokenFromRequest(r *http.Request) string {
	tok, _ := r.Context().Value(csrfContextKey{}).(string)
	return tok
}
