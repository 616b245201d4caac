package internal

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudkit/pkg/logger"
)

// productOptions is a minimal working schema used across tests.
func productOptions() Options {
	return Options{
		Name: "product",
		Fields: []Field{
			{Name: "id", ReadOnly: true, HideInList: true},
			{Name: "name"},
		},
		Actions: Actions{
			GetList: func(ctx *Context) ([]Record, error) {
				return []Record{{"id": "1", "name": "Axe"}}, nil
			},
			GetSingle: func(ctx *Context, id string) (Record, error) {
				if id == "1" {
					return Record{"id": "1", "name": "Axe"}, nil
				}
				return nil, nil
			},
		},
		Logger: logger.NewNope(),
	}
}

func mustNormalize(t *testing.T, opts Options) *Options {
	t.Helper()
	require.NoError(t, opts.normalize())
	return &opts
}

// newTestContext builds a Context directly, bypassing the router, for
// unit tests of coercion, rules and views.
func newTestContext(opts *Options, routeName RouteName, body url.Values) *Context {
	method := http.MethodGet
	if body != nil {
		method = http.MethodPost
	}
	return &Context{
		opts:      opts,
		logger:    logger.NewNope(),
		request:   httptest.NewRequest(method, "/", nil),
		routeName: routeName,
		body:      body,
	}
}

// cookieValue digs a named cookie out of a recorded response.
func cookieValue(rec *httptest.ResponseRecorder, name string) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
