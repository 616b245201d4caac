// Package cookie provides HTTP cookie management for correlation cookies.
//
// The Manager writes cookies with shared security defaults (HttpOnly,
// SameSite=Lax). [ExtractFromHeader] reads a value straight from the raw
// Cookie header so middleware can run without any upstream cookie parser.
//
// # Basic Usage
//
//	m := cookie.New()
//	m.Set(w, "token", value, 0)
//	v, err := m.Get(r, "token")
//	if err != nil {
//		// handle error
//	}
//
// # Raw header extraction
//
//	token := cookie.ExtractFromHeader(r.Header.Get("Cookie"), "token")
package cookie
