package internal

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Context carries everything a handler, action callback, view or text
// needs for one request. It satisfies context.Context by delegating to
// the request context, so it can be passed straight into databases and
// other context-aware APIs.
type Context struct {
	opts      *Options
	logger    *slog.Logger
	request   *http.Request
	routeName RouteName
	idParam   string
	body      url.Values
	csrfToken string
	flash     *Flash
	session   *Session
}

// Deadline implements context.Context.
func (c *Context) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }

// Done implements context.Context.
func (c *Context) Done() <-chan struct{} { return c.request.Context().Done() }

// Err implements context.Context.
func (c *Context) Err() error { return c.request.Context().Err() }

// Value implements context.Context.
func (c *Context) Value(key any) any { return c.request.Context().Value(key) }

var _ context.Context = (*Context)(nil)

// Request returns the underlying HTTP request.
func (c *Context) Request() *http.Request { return c.request }

// Logger returns the request logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Name returns the resource name the mount manages.
func (c *Context) Name() string { return c.opts.Name }

// Mode returns the mount mode.
func (c *Context) Mode() Mode { return c.opts.Mode }

// Fields returns the field schema.
func (c *Context) Fields() []*Field { return c.opts.fields }

// Routes returns the mount-relative route patterns and URL builders.
func (c *Context) Routes() Routes { return c.opts.Routes }

// Texts returns the resolved display strings.
func (c *Context) Texts() Texts { return c.opts.Texts }

// Tweaks returns the behavior switches.
func (c *Context) Tweaks() Tweaks { return c.opts.Tweaks }

// RouteName identifies the handler serving this request.
func (c *Context) RouteName() RouteName { return c.routeName }

// Creating reports whether the request is a create (as opposed to an
// edit of an existing record).
func (c *Context) Creating() bool {
	return c.routeName == RouteCreatePage || c.routeName == RouteCreateAction
}

// IDParam returns the record ID from the URL, or an empty string on
// routes without one (and always in single-record mode).
func (c *Context) IDParam() string { return c.idParam }

// Body returns the parsed form body. Empty on GET requests.
func (c *Context) Body() url.Values { return c.body }

// CSRFToken returns the token to embed in forms. Empty when CSRF
// protection is disabled.
func (c *Context) CSRFToken() string { return c.csrfToken }

// Flash returns the flash consumed from the previous request, or nil.
func (c *Context) Flash() *Flash { return c.flash }

// Session returns the per-visitor session, or nil when sessions are
// disabled.
func (c *Context) Session() *Session { return c.session }

// URL joins a mount-relative path with the configured base path, so
// links and redirects land inside the mount wherever it is installed.
func (c *Context) URL(rel string) string {
	return path.Join(c.opts.BasePath, rel)
}

// URLWithQuery is URL plus an encoded query string.
func (c *Context) URLWithQuery(rel string, query url.Values) string {
	u := c.URL(rel)
	if len(query) == 0 {
		return u
	}
	return u + "?" + query.Encode()
}

// RecordID extracts the record's ID using the configured key or function.
func (c *Context) RecordID(record Record) string {
	return c.opts.recordID(record)
}
