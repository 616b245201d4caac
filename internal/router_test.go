package internal

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudkit/pkg/logger"
)

func mustMount(t *testing.T, opts Options) http.Handler {
	t.Helper()
	h, err := New(opts)
	require.NoError(t, err)
	return h
}

func get(h http.Handler, target, cookieHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(h http.Handler, target string, form url.Values, cookieHeader string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postForm(target, form, cookieHeader))
	return rec
}

// csrfDance makes first contact and returns the minted token with the
// cookie header to replay it.
func csrfDance(t *testing.T, h http.Handler) (token, cookieHeader string) {
	t.Helper()
	rec := get(h, "/", "")
	token = cookieValue(rec, "CUI_csrf")
	require.NotEmpty(t, token)
	return token, "CUI_csrf=" + token
}

func TestMount_ListPage(t *testing.T) {
	t.Parallel()

	h := mustMount(t, productOptions())

	rec := get(h, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Axe")
	require.Contains(t, rec.Body.String(), "Products")
}

func TestMount_CreateValidationRoundTrip(t *testing.T) {
	t.Parallel()

	created := false
	opts := productOptions()
	opts.Tweaks.DisableCSRF = true
	opts.Fields = []Field{
		{Name: "name", Validate: &Validator{Rules: &Rules{Presence: true}}},
		{Name: "bio", Type: FieldText},
	}
	opts.Actions.Create = func(ctx *Context, payload Record) (any, error) {
		created = true
		return true, nil
	}
	h := mustMount(t, opts)

	// Submitting a blank name bounces back to the form.
	rec := post(h, "/create", url.Values{"name": {""}, "bio": {"keep me"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/create", rec.Header().Get("Location"))
	require.False(t, created, "create action must not run on invalid input")

	flashTok := cookieValue(rec, "CUI_flash")
	require.NotEmpty(t, flashTok)

	// Following the redirect shows the fault and keeps the typed input.
	rec2 := get(h, "/create", "CUI_flash="+flashTok)
	require.Equal(t, http.StatusOK, rec2.Code)
	body := rec2.Body.String()
	require.Contains(t, body, "Name can&#39;t be blank")
	require.Contains(t, body, "keep me")

	// The flash was consumed; a reload renders a clean form.
	rec3 := get(h, "/create", "CUI_flash="+flashTok)
	require.NotContains(t, rec3.Body.String(), "blank")
}

func TestMount_CreateSuccessRedirectsWithFlash(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Tweaks.DisableCSRF = true
	opts.Actions.Create = func(ctx *Context, payload Record) (any, error) {
		return Record{"id": "2", "name": payload["name"]}, nil
	}
	h := mustMount(t, opts)

	rec := post(h, "/create", url.Values{"name": {"Hammer"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	flashTok := cookieValue(rec, "CUI_flash")
	require.NotEmpty(t, flashTok)

	rec2 := get(h, "/", "CUI_flash="+flashTok)
	require.Contains(t, rec2.Body.String(), "Product created")
}

func TestMount_DeleteWithValidCSRF(t *testing.T) {
	t.Parallel()

	deleted := ""
	opts := productOptions()
	opts.Actions.Delete = func(ctx *Context, id string) (any, error) {
		deleted = id
		return true, nil
	}
	h := mustMount(t, opts)

	token, cookieHeader := csrfDance(t, h)

	rec := post(h, "/delete/1", url.Values{"__cui_csrf__": {token}}, cookieHeader)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.Equal(t, "1", deleted)

	// Returning true suppresses the flash, so no flash cookie is set.
	require.Equal(t, "", cookieValue(rec, "CUI_flash"))
}

func TestMount_EditRejectedOnBadCSRF(t *testing.T) {
	t.Parallel()

	updated := false
	opts := productOptions()
	opts.Actions.Update = func(ctx *Context, id string, payload Record) (any, error) {
		updated = true
		return true, nil
	}
	h := mustMount(t, opts)

	_, cookieHeader := csrfDance(t, h)

	rec := post(h, "/edit/1", url.Values{
		"name":         {"Pickaxe"},
		"__cui_csrf__": {"forged"},
	}, cookieHeader)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "CSRF")
	require.False(t, updated, "update must never run without a valid token")
}

func TestMount_EditSuccessRedirects(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Tweaks.DisableCSRF = true
	opts.Actions.Update = func(ctx *Context, id string, payload Record) (any, error) {
		return Record{"id": id, "name": payload["name"]}, nil
	}
	h := mustMount(t, opts)

	// Plain edit lands on the index.
	rec := post(h, "/edit/1", url.Values{"name": {"Pickaxe"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	// Detail-flavored edit goes back to the detail page.
	rec = post(h, "/detail/1/edit", url.Values{"name": {"Pickaxe"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/detail/1", rec.Header().Get("Location"))
}

func TestMount_EditValidationRedirectTargets(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Tweaks.DisableCSRF = true
	opts.Fields = []Field{
		{Name: "name", Validate: &Validator{Rules: &Rules{Presence: true}}},
	}
	opts.Actions.Update = func(ctx *Context, id string, payload Record) (any, error) {
		return true, nil
	}
	h := mustMount(t, opts)

	rec := post(h, "/edit/1", url.Values{}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/edit/1", rec.Header().Get("Location"))

	rec = post(h, "/detail/1/edit", url.Values{}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/detail/1/edit", rec.Header().Get("Location"))
}

func TestMount_RecordNotFound(t *testing.T) {
	t.Parallel()

	h := mustMount(t, productOptions())

	rec := get(h, "/detail/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not found")
}

func TestMount_MissingActionIs500(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Tweaks.DisableCSRF = true
	// No Update action configured.
	h := mustMount(t, opts)

	rec := post(h, "/edit/1", url.Values{"name": {"x"}}, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMount_ReadOnlyResourceWithoutGetSingle(t *testing.T) {
	t.Parallel()

	// A list-only resource is a valid mount, but the edit and detail
	// pages cannot load a record and must answer with the error page
	// instead of crashing.
	opts := productOptions()
	opts.Actions.GetSingle = nil
	h := mustMount(t, opts)

	rec := get(h, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(h, "/edit/1", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "getSingle")

	rec = get(h, "/detail/1", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMount_SingleRecordMode(t *testing.T) {
	t.Parallel()

	record := Record{"greeting": "hello"}
	opts := Options{
		Name: "settings",
		Mode: ModeSingleRecord,
		Fields: []Field{
			{Name: "greeting"},
		},
		Actions: Actions{
			GetSingle: func(ctx *Context, id string) (Record, error) {
				require.Equal(t, "", id)
				return record, nil
			},
			Update: func(ctx *Context, id string, payload Record) (any, error) {
				require.Equal(t, "", id)
				record["greeting"] = payload["greeting"].(string)
				return record, nil
			},
		},
		Tweaks: Tweaks{DisableCSRF: true},
		Logger: logger.NewNope(),
	}
	h := mustMount(t, opts)

	// Index shows the record itself.
	rec := get(h, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "hello")

	// The edit form is at /edit without an ID.
	rec = get(h, "/edit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = post(h, "/edit", url.Values{"greeting": {"hi"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	require.Equal(t, "hi", record["greeting"])

	// Create and delete routes do not exist in this mode.
	rec = get(h, "/create", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = post(h, "/delete/1", url.Values{}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMount_BasePathInLinksAndRedirects(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.BasePath = "/admin/products"
	opts.Tweaks.DisableCSRF = true
	opts.Actions.Create = func(ctx *Context, payload Record) (any, error) { return true, nil }
	h := mustMount(t, opts)

	rec := get(h, "/", "")
	require.Contains(t, rec.Body.String(), `href="/admin/products/detail/1"`)

	rec = post(h, "/create", url.Values{"name": {"Hammer"}}, "")
	require.Equal(t, "/admin/products", rec.Header().Get("Location"))
}

func TestMount_OnErrorHook(t *testing.T) {
	t.Parallel()

	var seen error
	opts := productOptions()
	opts.Actions.GetList = func(ctx *Context) ([]Record, error) {
		return nil, NewError(http.StatusBadGateway, "upstream broke")
	}
	opts.OnError = func(ctx *Context, err error) { seen = err }
	h := mustMount(t, opts)

	rec := get(h, "/", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "upstream broke")
	require.Error(t, seen)
}

func TestMount_SessionHeldFlash(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Tweaks.DisableCSRF = true
	opts.Tweaks.EnableSessions = true
	opts.Actions.Create = func(ctx *Context, payload Record) (any, error) {
		return Record{"id": "2", "name": payload["name"]}, nil
	}
	h := mustMount(t, opts)

	rec := post(h, "/create", url.Values{"name": {"Hammer"}}, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// The flash rides in the session, so no flash cookie is minted.
	require.Empty(t, cookieValue(rec, "CUI_flash"))
	sessKey := cookieValue(rec, "CUI_session")
	require.NotEmpty(t, sessKey)

	rec2 := get(h, "/", "CUI_session="+sessKey)
	require.Contains(t, rec2.Body.String(), "Product created")

	// Consumed on first read; a reload is clean.
	rec3 := get(h, "/", "CUI_session="+sessKey)
	require.NotContains(t, rec3.Body.String(), "Product created")
}

func TestMount_CancelLinkUsesEditReferer(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Tweaks.DisableCSRF = true
	opts.Tweaks.EnableSessions = true
	h := mustMount(t, opts)

	rec := get(h, "/", "")
	sessKey := cookieValue(rec, "CUI_session")
	require.NotEmpty(t, sessKey)

	req := httptest.NewRequest(http.MethodGet, "/edit/1", nil)
	req.Header.Set("Cookie", "CUI_session="+sessKey)
	req.Header.Set("Referer", "/reports/latest")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)

	require.Equal(t, http.StatusOK, rec2.Code)
	require.Contains(t, rec2.Body.String(), `href="/reports/latest">Cancel`)
}

func TestMount_RouteLandsInActionLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := productOptions()
	opts.Logger = logger.NewWithWriter(&buf, RouteNameExtractor())
	opts.Actions.GetList = func(ctx *Context) ([]Record, error) {
		ctx.Logger().InfoContext(ctx, "listing records")
		return []Record{}, nil
	}
	h := mustMount(t, opts)

	get(h, "/", "")
	require.Contains(t, buf.String(), `"route":"indexPage"`)
	require.Contains(t, buf.String(), `"resource":"product"`)
}

func TestMount_CustomViews(t *testing.T) {
	t.Parallel()

	opts := productOptions()
	opts.Views = Views{
		ListPage: func(ctx *Context, records []Record) (string, error) {
			return "<p>custom list</p>", nil
		},
	}
	h := mustMount(t, opts)

	rec := get(h, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<p>custom list</p>", rec.Body.String())
}
