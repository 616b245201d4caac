package cookie_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/crudkit/pkg/cookie"
)

func TestNew(t *testing.T) {
	m := cookie.New()
	if m == nil {
		t.Fatal("New() returned nil")
	}
}

func TestPlainCookies(t *testing.T) {
	m := cookie.New()

	t.Run("get non-existent cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.Get(r, "missing")
		if !errors.Is(err, cookie.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set and get cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.Set(w, "name", "value", 3600)

		cookies := w.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
		c := cookies[0]
		if c.Name != "name" || c.Value != "value" {
			t.Errorf("cookie = %s=%s, want name=value", c.Name, c.Value)
		}
		if !c.HttpOnly {
			t.Error("cookie should be HttpOnly by default")
		}
		if c.SameSite != http.SameSiteLaxMode {
			t.Errorf("SameSite = %v, want Lax", c.SameSite)
		}

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)
		v, err := m.Get(r, "name")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if v != "value" {
			t.Errorf("Get() = %q, want %q", v, "value")
		}
	})

	t.Run("delete cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.Delete(w, "name")

		cookies := w.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
		if cookies[0].MaxAge != -1 {
			t.Errorf("MaxAge = %d, want -1", cookies[0].MaxAge)
		}
	})
}

func TestOptions(t *testing.T) {
	m := cookie.New(
		cookie.WithDomain("example.com"),
		cookie.WithPath("/admin"),
		cookie.WithSecure(true),
		cookie.WithHTTPOnly(false),
		cookie.WithSameSite(http.SameSiteStrictMode),
	)

	w := httptest.NewRecorder()
	m.Set(w, "k", "v", 0)
	c := w.Result().Cookies()[0]

	if c.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", c.Domain)
	}
	if c.Path != "/admin" {
		t.Errorf("Path = %q, want /admin", c.Path)
	}
	if !c.Secure {
		t.Error("Secure should be set")
	}
	if c.HttpOnly {
		t.Error("HttpOnly should be disabled")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", c.SameSite)
	}
}

func TestExtractFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"empty header", "", "x", ""},
		{"single cookie", "a=b", "a", "b"},
		{"multiple cookies", "a=b; c=d; e=f", "c", "d"},
		{"missing cookie", "a=b; c=d", "x", ""},
		{"no spaces", "a=b;c=d", "c", "d"},
		{"value with base64 padding chars", "tok=abc-_123; other=x", "tok", "abc-_123"},
		{"name is prefix of another", "session_id=long; id=short", "id", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cookie.ExtractFromHeader(tt.header, tt.cookie)
			if got != tt.want {
				t.Errorf("ExtractFromHeader(%q, %q) = %q, want %q", tt.header, tt.cookie, got, tt.want)
			}
		})
	}
}
