package internal

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/crudkit/pkg/cookie"
	"github.com/dmitrymomot/crudkit/pkg/logger"
)

type routeNameContextKey struct{}

// RouteNameExtractor returns a logger extractor that annotates entries
// with the route currently being served. Pass it to logger.New when
// building the logger handed to Options.Logger.
func RouteNameExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if name, ok := ctx.Value(routeNameContextKey{}).(RouteName); ok && name != "" {
			return slog.String("route", string(name)), true
		}
		return slog.Attr{}, false
	}
}

// mount is one assembled admin UI: the normalized options, the stores
// correlating state across redirects and the chi router tying the
// handlers together.
type mount struct {
	opts     *Options
	logger   *slog.Logger
	flash    *flashManager
	sessions *sessionManager
	csrf     *csrfGuard
	router   chi.Router
}

// New assembles an http.Handler serving the admin UI described by opts.
// Configuration problems surface here, not per request.
func New(opts Options) (http.Handler, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	log := opts.Logger.With("component", "crudkit", "resource", opts.Name)

	var cookieOpts []cookie.Option
	if opts.Tweaks.CookieSecure {
		cookieOpts = append(cookieOpts, cookie.WithSecure(true))
	}
	if opts.Tweaks.CookieDomain != "" {
		cookieOpts = append(cookieOpts, cookie.WithDomain(opts.Tweaks.CookieDomain))
	}
	cookies := cookie.New(cookieOpts...)

	m := &mount{
		opts:   &opts,
		logger: log,
		flash:  newFlashManager(opts.Tweaks.FlashCookieName, opts.Tweaks.FlashMaxAge, cookies, log),
	}

	if opts.Tweaks.EnableSessions {
		m.sessions = newSessionManager(
			opts.SessionStore,
			opts.Tweaks.SessionCookieName,
			opts.Tweaks.SessionTTL,
			opts.Tweaks.SessionSweepInterval,
			cookies,
			log,
		)
	}
	if !opts.Tweaks.DisableCSRF {
		m.csrf = newCSRFGuard(opts.Tweaks.CSRFFieldName, opts.Tweaks.CSRFCookieName, cookies, 0, log)
		m.csrf.fail = func(w http.ResponseWriter, r *http.Request, err error) {
			m.renderError(w, r, "", err)
		}
	}

	r := chi.NewRouter()
	r.Use(m.flash.Middleware)
	if m.sessions != nil {
		r.Use(m.sessions.Middleware)
	}
	if m.csrf != nil {
		r.Use(m.csrf.Middleware)
	}

	routes := opts.Routes
	r.Get(routes.IndexPage, m.wrap(indexPage, RouteIndexPage))

	if opts.Mode == ModeSingleRecord {
		r.Get(routes.EditPage, m.wrap(editPage, RouteEditPage))
		r.Post(routes.EditAction, m.wrap(editAction, RouteEditAction))
	} else {
		r.Get(routes.CreatePage, m.wrap(createPage, RouteCreatePage))
		r.Post(routes.CreateAction, m.wrap(createAction, RouteCreateAction))

		r.Get(routes.EditPage, m.wrap(editPage, RouteEditPage))
		r.Post(routes.EditAction, m.wrap(editAction, RouteEditAction))

		r.Get(routes.DetailPage, m.wrap(detailPage, RouteDetailPage))
		r.Get(routes.DetailEditPage, m.wrap(editPage, RouteDetailEditPage))
		r.Post(routes.DetailEditAction, m.wrap(editAction, RouteDetailEditAction))

		r.Post(routes.DeleteAction, m.wrap(deleteAction, RouteDeleteAction))
	}

	m.router = r
	return m, nil
}

func (m *mount) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.router.ServeHTTP(w, r)
}

func (m *mount) newContext(r *http.Request, routeName RouteName) *Context {
	body := url.Values{}
	if isMutating(r.Method) {
		// Idempotent if the CSRF middleware already parsed it.
		if err := r.ParseForm(); err == nil {
			body = r.PostForm
		}
	}
	return &Context{
		opts:      m.opts,
		logger:    m.logger,
		request:   r,
		routeName: routeName,
		idParam:   chi.URLParam(r, "id"),
		body:      body,
		csrfToken: csrfTokenFromRequest(r),
		flash:     flashFromRequest(r),
		session:   sessionFromRequest(r),
	}
}

// wrap adapts a page handler into an http.HandlerFunc: it builds the
// request context, persists any flash the response carries and writes
// the HTML or redirect. Errors fall through to the shared error tail.
func (m *mount) wrap(h handlerFunc, routeName RouteName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(context.WithValue(r.Context(), routeNameContextKey{}, routeName))
		ctx := m.newContext(r, routeName)
		m.rememberEditReferer(r, routeName)

		resp, err := h(ctx)
		if err != nil {
			m.renderError(w, r, routeName, err)
			return
		}

		switch resp := resp.(type) {
		case RedirectResponse:
			if resp.Flash != nil {
				m.setFlash(w, r, *resp.Flash)
			}
			http.Redirect(w, r, resp.Location, http.StatusSeeOther)
		case HTMLResponse:
			if resp.Flash != nil {
				m.setFlash(w, r, *resp.Flash)
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(resp.Body))
		default:
			m.renderError(w, r, routeName,
				NewError(http.StatusInternalServerError, "Invalid handler response"))
		}
	}
}

// setFlash parks a flash for the next request: in the visitor's session
// when sessions are enabled, otherwise in the cookie-correlated store.
func (m *mount) setFlash(w http.ResponseWriter, r *http.Request, flash Flash) {
	if m.sessions != nil {
		if sess := sessionFromRequest(r); sess != nil {
			sess.Flash = &flash
			m.sessions.store.Put(sess)
			return
		}
	}
	m.flash.Set(w, flash)
}

// rememberEditReferer records where the visitor came from when opening an
// edit form, so the form's cancel link can lead back there. The last
// referring page wins.
func (m *mount) rememberEditReferer(r *http.Request, routeName RouteName) {
	if m.sessions == nil {
		return
	}
	if routeName != RouteEditPage && routeName != RouteDetailEditPage {
		return
	}
	sess := sessionFromRequest(r)
	if sess == nil {
		return
	}
	if ref := r.Referer(); ref != "" {
		sess.EditBackURL = ref
		m.sessions.store.Put(sess)
	}
}

// renderError is the single exit for every failed request, shared by the
// handlers and the CSRF middleware.
func (m *mount) renderError(w http.ResponseWriter, r *http.Request, routeName RouteName, err error) {
	ctx := m.newContext(r, routeName)

	if m.opts.OnError != nil {
		m.opts.OnError(ctx, err)
	} else {
		m.logger.Error("request failed",
			"route", string(routeName),
			"path", r.URL.Path,
			"error", err,
		)
	}

	code := http.StatusInternalServerError
	if e := AsError(err); e != nil {
		code = e.Code
	} else if ve := AsValidationError(err); ve != nil {
		code = ve.StatusCode()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(m.opts.Views.ErrorPage(ctx, err)))
}
