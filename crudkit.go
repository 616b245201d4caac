package crudkit

import (
	"net/http"

	"github.com/dmitrymomot/crudkit/internal"
	"github.com/dmitrymomot/crudkit/pkg/cookie"
	"github.com/dmitrymomot/crudkit/pkg/logger"
)

// Type aliases - public API
type (
	// Options configures one admin UI mount.
	Options = internal.Options

	// Mode selects the route layout and list behavior.
	Mode = internal.Mode

	// Field describes one column of the managed resource.
	Field = internal.Field

	// FieldType determines coercion and form rendering.
	FieldType = internal.FieldType

	// SelectOption is one entry of a select field's option set.
	SelectOption = internal.SelectOption

	// Validator attaches validation to a field, as a callback or a
	// declarative rule set.
	Validator = internal.Validator

	// ValidateFunc is the callback flavor of a Validator.
	ValidateFunc = internal.ValidateFunc

	// Rules is the declarative flavor of a Validator.
	Rules = internal.Rules

	// Record is one row of the managed resource, keyed by field name.
	Record = internal.Record

	// Actions holds the host application's data callbacks.
	Actions = internal.Actions

	// Context carries everything a callback needs for one request.
	// It satisfies context.Context.
	Context = internal.Context

	// Views are the page renderers.
	Views = internal.Views

	// Texts collects the user-facing strings of the generated pages.
	Texts = internal.Texts

	// Text is a display string, literal or computed per request.
	Text = internal.Text

	// Routes holds the mount-relative path patterns.
	Routes = internal.Routes

	// RouteName identifies which handler serves the current request.
	RouteName = internal.RouteName

	// Tweaks are behavior switches.
	Tweaks = internal.Tweaks

	// Flash is the payload carried across exactly one redirect.
	Flash = internal.Flash

	// Response is what a custom handler or view flow produces.
	Response = internal.Response

	// Error is a request-level failure with an HTTP status code.
	Error = internal.Error

	// ValidationError aggregates field faults and the attempted payload.
	ValidationError = internal.ValidationError

	// ValidationFault is a single field-level validation failure.
	ValidationFault = internal.ValidationFault

	// Session is the per-visitor server-side record.
	Session = internal.Session

	// SessionStore is the session persistence seam.
	SessionStore = internal.SessionStore

	// CookieOption configures a cookie manager.
	CookieOption = cookie.Option

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Modes.
const (
	ModeDetailList   = internal.ModeDetailList
	ModeSimpleList   = internal.ModeSimpleList
	ModeSingleRecord = internal.ModeSingleRecord
)

// Field types.
const (
	FieldString  = internal.FieldString
	FieldSecret  = internal.FieldSecret
	FieldText    = internal.FieldText
	FieldSelect  = internal.FieldSelect
	FieldBoolean = internal.FieldBoolean
)

// Route names.
const (
	RouteIndexPage        = internal.RouteIndexPage
	RouteCreatePage       = internal.RouteCreatePage
	RouteCreateAction     = internal.RouteCreateAction
	RouteEditPage         = internal.RouteEditPage
	RouteEditAction       = internal.RouteEditAction
	RouteDetailPage       = internal.RouteDetailPage
	RouteDetailEditPage   = internal.RouteDetailEditPage
	RouteDetailEditAction = internal.RouteDetailEditAction
	RouteDeleteAction     = internal.RouteDeleteAction
)

// New assembles an http.Handler serving the admin UI described by opts.
// Mount it anywhere a handler fits; set Options.BasePath to the mount
// path so generated links and redirects resolve.
//
// Example:
//
//	admin, err := crudkit.New(crudkit.Options{
//	    Name:     "user",
//	    BasePath: "/admin/users",
//	    Fields: []crudkit.Field{
//	        {Name: "id", ReadOnly: true},
//	        {Name: "name", Validate: &crudkit.Validator{Rules: &crudkit.Rules{Presence: true}}},
//	    },
//	    Actions: crudkit.Actions{
//	        GetList:   listUsers,
//	        GetSingle: getUser,
//	        Create:    createUser,
//	        Update:    updateUser,
//	        Delete:    deleteUser,
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	mux.Handle("/admin/users/", http.StripPrefix("/admin/users", admin))
func New(opts Options) (http.Handler, error) {
	return internal.New(opts)
}

// NewError creates an Error with the given status code and message.
func NewError(code int, message string) *Error {
	return internal.NewError(code, message)
}

// NewNotFoundError creates a 404 error with a preformatted message.
func NewNotFoundError(message string) *Error {
	return internal.NewNotFoundError(message)
}

// T makes a literal Text.
func T(s string) Text {
	return internal.T(s)
}

// TFunc makes a per-request computed Text.
func TFunc(fn func(ctx *Context) string) Text {
	return internal.TFunc(fn)
}

// HTML wraps rendered markup into a Response.
func HTML(body string) Response {
	return internal.HTML(body)
}

// Redirect builds a redirect Response.
func Redirect(location string) Response {
	return internal.Redirect(location)
}

// RedirectWithFlash builds a redirect carrying a flash payload.
func RedirectWithFlash(location string, flash Flash) Response {
	return internal.RedirectWithFlash(location, flash)
}

// RouteNameExtractor annotates log entries with the route serving the
// request. Pass it to logger.New when building the Options.Logger.
func RouteNameExtractor() ContextExtractor {
	return internal.RouteNameExtractor()
}
