// Package web provides the request/response model for vantage views: a
// request wrapper exposing query, form, cookie, session, and resolved URL
// data; an inert response value views return; view interfaces with method
// dispatch; and the render/redirect shortcut helpers.
package web

import (
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/vantage-web/vantage/sessions"
)

// Reverser builds a path from a named URL pattern. urls.Router implements
// it; the dispatch layer binds it onto each request so views and templates
// can reverse without importing the URL configuration.
type Reverser interface {
	Reverse(name string, args ...any) (string, error)
}

// Env carries the per-application collaborators a request needs: the URL
// reverser, the template set, and the loaded session. Any field may be nil;
// the corresponding request features then degrade gracefully.
type Env struct {
	Reverser  Reverser
	Templates *Templates
	Session   *sessions.Session
}

// Request wraps an incoming *http.Request with the resolved URL arguments
// and application environment.
type Request struct {
	// Raw is the underlying request, for anything the wrapper does not
	// surface.
	Raw *http.Request

	// Args holds the typed values captured from the URL pattern, keyed by
	// parameter name.
	Args map[string]any

	env        Env
	formParsed bool
}

// maxMultipartMemory bounds in-memory buffering of uploaded files; the rest
// spills to temp files.
const maxMultipartMemory = 10 << 20

// NewRequest wraps an http.Request with its application environment.
func NewRequest(raw *http.Request, env Env) *Request {
	return &Request{
		Raw:  raw,
		Args: make(map[string]any),
		env:  env,
	}
}

// SetArgs installs the resolved URL arguments.
func (r *Request) SetArgs(args map[string]any) {
	if args == nil {
		args = make(map[string]any)
	}
	r.Args = args
}

// Method returns the HTTP method.
func (r *Request) Method() string {
	return r.Raw.Method
}

// Path returns the request path.
func (r *Request) Path() string {
	return r.Raw.URL.Path
}

// GET returns a query parameter, or def when absent. Mirrors
// request.GET.get(key, default).
func (r *Request) GET(key, def string) string {
	if vs, ok := r.Raw.URL.Query()[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return def
}

// Query returns all query parameters.
func (r *Request) Query() url.Values {
	return r.Raw.URL.Query()
}

// POST returns a form parameter from the request body, or def when absent.
func (r *Request) POST(key, def string) string {
	r.parseForm()
	if vs, ok := r.Raw.PostForm[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return def
}

// Form returns the parsed body form values.
func (r *Request) Form() url.Values {
	r.parseForm()
	return r.Raw.PostForm
}

// File returns an uploaded file by field name.
func (r *Request) File(name string) (multipart.File, *multipart.FileHeader, error) {
	r.parseForm()
	return r.Raw.FormFile(name)
}

func (r *Request) parseForm() {
	if r.formParsed {
		return
	}
	r.formParsed = true

	ct := r.Raw.Header.Get("Content-Type")
	if ct != "" && len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		// ParseMultipartForm also populates PostForm.
		_ = r.Raw.ParseMultipartForm(maxMultipartMemory)
		return
	}
	_ = r.Raw.ParseForm()
}

// Header returns a request header value.
func (r *Request) Header(name string) string {
	return r.Raw.Header.Get(name)
}

// Cookie returns a request cookie value, or def when absent.
func (r *Request) Cookie(name, def string) string {
	c, err := r.Raw.Cookie(name)
	if err != nil {
		return def
	}
	return c.Value
}

// Session returns the request's session. Requests dispatched without a
// session store get an unsaved in-memory session, so view code does not
// need a nil check.
func (r *Request) Session() *sessions.Session {
	if r.env.Session == nil {
		r.env.Session = sessions.Detached()
	}
	return r.env.Session
}

// IntArg returns a URL argument as int. The second return is false when the
// argument is absent or not an int.
func (r *Request) IntArg(name string) (int, bool) {
	v, ok := r.Args[name].(int)
	return v, ok
}

// StringArg returns a URL argument as string.
func (r *Request) StringArg(name string) (string, bool) {
	v, ok := r.Args[name].(string)
	return v, ok
}

// Reverse builds a path from a named URL pattern using the bound reverser.
func (r *Request) Reverse(name string, args ...any) (string, error) {
	if r.env.Reverser == nil {
		return "", NewInternalError("no_reverser", "request has no URL reverser bound", nil)
	}
	return r.env.Reverser.Reverse(name, args...)
}

// Templates returns the bound template set, or nil when rendering was not
// configured.
func (r *Request) Templates() *Templates {
	return r.env.Templates
}
