package web

import (
	"bytes"
	"net/http"
	"strings"
)

// Context is the data bag handed to a template, mirroring the context dict
// Django views pass to render.
type Context map[string]any

// Render loads the named template from the request's template set, executes
// it with ctx, and returns a 200 HTML response:
//
//	return web.Render(r, "posts/dashboard.html", web.Context{
//		"posts": posts,
//		"form":  form,
//	})
func Render(r *Request, name string, ctx Context) (*Response, error) {
	return RenderStatus(r, name, ctx, http.StatusOK)
}

// RenderStatus is Render with an explicit status code, for rendered error
// pages like a templated 404.
func RenderStatus(r *Request, name string, ctx Context, status int) (*Response, error) {
	t := r.Templates()
	if t == nil {
		return nil, NewTemplateError("no_templates", "request has no template set bound", nil)
	}

	var buf bytes.Buffer
	if err := t.Render(&buf, name, ctx); err != nil {
		return nil, err
	}

	resp := HTML(buf.String())
	resp.Status = status
	return resp, nil
}

// RedirectTo builds a 302 redirect. The target may be a URL or path, which
// is used as-is, or the name of a URL pattern, which is reversed with the
// given arguments:
//
//	return web.RedirectTo(r, "post-detail", post.ID)
//	return web.RedirectTo(r, "/dashboard/")
//	return web.RedirectTo(r, "https://example.com/")
func RedirectTo(r *Request, target string, args ...any) (*Response, error) {
	location, err := resolveTarget(r, target, args...)
	if err != nil {
		return nil, err
	}
	return Redirect(location), nil
}

// RedirectToPermanent is RedirectTo with a 301 status.
func RedirectToPermanent(r *Request, target string, args ...any) (*Response, error) {
	location, err := resolveTarget(r, target, args...)
	if err != nil {
		return nil, err
	}
	return PermanentRedirect(location), nil
}

// resolveTarget decides whether target is a literal location or a pattern
// name. Anything that looks like a URL or path is literal; otherwise the
// reverser must know it.
func resolveTarget(r *Request, target string, args ...any) (string, error) {
	if strings.HasPrefix(target, "/") ||
		strings.Contains(target, "://") ||
		strings.HasPrefix(target, ".") {
		return target, nil
	}
	return r.Reverse(target, args...)
}
