package internal

// Response is what a page handler produces: either rendered HTML or a
// redirect, optionally with a flash for the follow-up request.
type Response interface {
	isResponse()
}

// HTMLResponse renders markup with a 200 status. A non-nil Flash is
// stored for the next request even though this response does not
// redirect.
type HTMLResponse struct {
	Body  string
	Flash *Flash
}

func (HTMLResponse) isResponse() {}

// RedirectResponse issues a 303 redirect, optionally parking a Flash for
// the target page.
type RedirectResponse struct {
	Location string
	Flash    *Flash
}

func (RedirectResponse) isResponse() {}

// HTML wraps rendered markup into a Response.
func HTML(body string) Response {
	return HTMLResponse{Body: body}
}

// Redirect builds a redirect Response.
func Redirect(location string) Response {
	return RedirectResponse{Location: location}
}

// RedirectWithFlash builds a redirect carrying a flash payload.
func RedirectWithFlash(location string, flash Flash) Response {
	return RedirectResponse{Location: location, Flash: &flash}
}

// resultToFlash turns an action result into the flash to show after a
// successful write. A Record goes through the formatter, a string is
// shown verbatim, anything else (true, nil) suppresses the flash.
func resultToFlash(ctx *Context, result any, format func(*Context, Record) string) *Flash {
	switch v := result.(type) {
	case Record:
		return &Flash{Message: format(ctx, v)}
	case string:
		if v == "" {
			return nil
		}
		return &Flash{Message: v}
	default:
		return nil
	}
}
