package internal

import (
	"fmt"
	"log/slog"
	"time"
)

// Mode selects which routes the mount exposes and how the list page
// behaves.
type Mode string

const (
	// ModeDetailList is the default: a list page linking to per-record
	// detail pages, with edit and delete reached from there.
	ModeDetailList Mode = "detail_list"

	// ModeSimpleList is a flat list with inline edit and delete links
	// and no detail pages.
	ModeSimpleList Mode = "simple_list"

	// ModeSingleRecord manages exactly one record: the index shows it
	// and /edit updates it. No create, delete or detail routes.
	ModeSingleRecord Mode = "single_record"
)

// Default correlation cookie and form field names.
const (
	DefaultFlashCookieName   = "CUI_flash"
	DefaultCSRFCookieName    = "CUI_csrf"
	DefaultSessionCookieName = "CUI_session"
	DefaultCSRFFieldName     = "__cui_csrf__"
)

// Default lifetimes.
const (
	DefaultFlashMaxAge          = time.Minute
	DefaultSessionTTL           = 30 * time.Minute
	DefaultSessionSweepInterval = 5 * time.Minute
)

// Tweaks are behavior switches with sensible zero values: CSRF on,
// sessions off, summary box shown, default cookie names.
type Tweaks struct {
	// DisableCSRF turns the token check off entirely.
	DisableCSRF bool

	// EnableSessions turns on per-visitor sessions. The CSRF token then
	// binds to the session instead of its own cookie.
	EnableSessions bool

	// HideValidationErrorSummary drops the aggregate fault box above
	// forms, leaving only per-field messages.
	HideValidationErrorSummary bool

	// CSRFFieldName is the hidden form field carrying the token.
	CSRFFieldName string

	// FlashCookieName, CSRFCookieName and SessionCookieName override the
	// correlation cookie names. Sibling mounts sharing a host should
	// either share names (cookies are path-scoped by default) or pick
	// distinct ones.
	FlashCookieName   string
	CSRFCookieName    string
	SessionCookieName string

	// FlashMaxAge bounds how long an unconsumed flash survives.
	FlashMaxAge time.Duration

	// SessionTTL is the idle timeout of a session.
	SessionTTL time.Duration

	// SessionSweepInterval gates how often the inline idle-session sweep
	// may run.
	SessionSweepInterval time.Duration

	// CookieSecure marks all cookies Secure. Set it when serving over
	// HTTPS.
	CookieSecure bool

	// CookieDomain scopes all cookies to a domain.
	CookieDomain string
}

func (t Tweaks) applyDefaults() Tweaks {
	if t.CSRFFieldName == "" {
		t.CSRFFieldName = DefaultCSRFFieldName
	}
	if t.FlashCookieName == "" {
		t.FlashCookieName = DefaultFlashCookieName
	}
	if t.CSRFCookieName == "" {
		t.CSRFCookieName = DefaultCSRFCookieName
	}
	if t.SessionCookieName == "" {
		t.SessionCookieName = DefaultSessionCookieName
	}
	if t.FlashMaxAge <= 0 {
		t.FlashMaxAge = DefaultFlashMaxAge
	}
	if t.SessionTTL <= 0 {
		t.SessionTTL = DefaultSessionTTL
	}
	if t.SessionSweepInterval <= 0 {
		t.SessionSweepInterval = DefaultSessionSweepInterval
	}
	return t
}

// Options configures one mount. Name, Fields and the mode-appropriate
// Actions are required; everything else has defaults.
type Options struct {
	// Name is the singular, slug-style resource name ("user",
	// "pay_slip"). Headings and messages are derived from it.
	Name string

	// Mode defaults to ModeDetailList.
	Mode Mode

	// Fields is the column schema, in display order.
	Fields []Field

	// Actions are the host's data callbacks.
	Actions Actions

	// Views override the page renderers. Unset entries use the built-in
	// templates.
	Views Views

	// Texts override display strings.
	Texts Texts

	// Routes override the mount-relative path patterns.
	Routes Routes

	// Tweaks are behavior switches.
	Tweaks Tweaks

	// BasePath is the path the handler is mounted under, used for
	// generated links and redirects. Defaults to "/".
	BasePath string

	// RecordIDKey is the record key holding the ID. Defaults to "id".
	RecordIDKey string

	// RecordIDFunc overrides ID extraction entirely.
	RecordIDFunc func(record Record) string

	// SessionStore replaces the built-in in-memory session store.
	SessionStore SessionStore

	// OnError observes every error that reaches the error page, before
	// rendering. The default logs it.
	OnError func(ctx *Context, err error)

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	fields   []*Field
	recordID func(record Record) string
}

// normalize validates the configuration and fills every default. Schema
// problems are configuration bugs and fail the mount rather than
// surfacing per request.
func (o *Options) normalize() error {
	if o.Name == "" {
		return fmt.Errorf("crudkit: options need a name")
	}
	if o.Mode == "" {
		o.Mode = ModeDetailList
	}
	switch o.Mode {
	case ModeDetailList, ModeSimpleList, ModeSingleRecord:
	default:
		return fmt.Errorf("crudkit: unknown mode %q", o.Mode)
	}

	if len(o.Fields) == 0 {
		return fmt.Errorf("crudkit: options need at least one field")
	}
	seen := make(map[string]struct{}, len(o.Fields))
	o.fields = make([]*Field, len(o.Fields))
	for i := range o.Fields {
		field := &o.Fields[i]
		if field.Type == "" {
			field.Type = FieldString
		}
		if err := field.validateSchema(); err != nil {
			return fmt.Errorf("crudkit: %w", err)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("crudkit: duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}
		o.fields[i] = field
	}

	if err := o.Actions.validateFor(o.Mode); err != nil {
		return fmt.Errorf("crudkit: %w", err)
	}

	o.Tweaks = o.Tweaks.applyDefaults()
	o.Routes = o.Routes.applyDefaults(o.Mode)
	o.Texts = o.Texts.applyDefaults(o.Name)
	o.Views = o.Views.applyDefaults()

	if o.BasePath == "" {
		o.BasePath = "/"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	if o.RecordIDFunc != nil {
		o.recordID = o.RecordIDFunc
	} else {
		key := o.RecordIDKey
		if key == "" {
			key = "id"
		}
		o.recordID = func(record Record) string {
			if record == nil {
				return ""
			}
			v, ok := record[key]
			if !ok || v == nil {
				return ""
			}
			return fmt.Sprint(v)
		}
	}
	return nil
}
