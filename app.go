// Package vantage is a small web framework in the Django mold: URL
// configurations dispatch requests to views, views take a request object
// and return a response object, and helper shortcuts cover the common
// render-a-template and redirect-by-name cases.
//
// An application is a compiled URL router plus optional collaborators
// (templates, sessions, logging) wrapped into an http.Handler:
//
//	router := urls.Must(
//		urls.Path("", web.ViewFunc(index), "home"),
//		urls.Path("posts/<int:pk>/", web.ViewFunc(detail), "post-detail"),
//	)
//
//	app := vantage.New(router,
//		vantage.WithTemplates(web.DirTemplates("templates")),
//	)
//	http.ListenAndServe(":8000", app)
package vantage

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/vantage-web/vantage/internal/logging"
	"github.com/vantage-web/vantage/sessions"
	"github.com/vantage-web/vantage/urls"
	"github.com/vantage-web/vantage/web"
)

// App dispatches requests through a URL router and manages the
// request/response lifecycle around views: session load and save, 404
// mapping, panic-free error responses.
type App struct {
	router      *urls.Router
	templates   *web.Templates
	sessions    *sessions.Store
	logger      logging.Logger
	notFound    web.ViewFunc
	debug       bool
	appendSlash bool
}

// Option configures an App.
type Option func(*App)

// WithTemplates installs the template set used by web.Render. The app binds
// its router as the set's URL reverser so the template "url" function
// works.
func WithTemplates(t *web.Templates) Option {
	return func(a *App) { a.templates = t }
}

// WithSessions enables signed cookie sessions.
func WithSessions(s *sessions.Store) Option {
	return func(a *App) { a.sessions = s }
}

// WithLogger sets the structured logger. Defaults to a text logger on
// stdout.
func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithNotFound installs a custom 404 view. It receives the request and the
// not-found message, mirroring a custom page-not-found handler.
func WithNotFound(v web.ViewFunc) Option {
	return func(a *App) { a.notFound = v }
}

// WithDebug includes error details in 500 responses. Never enable it for
// deployments reachable by untrusted clients.
func WithDebug(debug bool) Option {
	return func(a *App) { a.debug = debug }
}

// WithAppendSlash redirects unresolved paths to their slash-suffixed form
// when that form resolves, Django's APPEND_SLASH behavior.
func WithAppendSlash(enabled bool) Option {
	return func(a *App) { a.appendSlash = enabled }
}

// New creates an App around a compiled router.
func New(router *urls.Router, opts ...Option) *App {
	if router == nil {
		panic("vantage: router cannot be nil")
	}

	a := &App{
		router:      router,
		appendSlash: true,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewLogger(nil)
	}
	if a.templates != nil {
		a.templates.BindReverser(router)
	}

	return a
}

// Router returns the app's URL router.
func (a *App) Router() *urls.Router {
	return a.router
}

// Templates returns the app's template set, or nil when none is configured.
func (a *App) Templates() *web.Templates {
	return a.templates
}

// ServeHTTP resolves the path, runs the matched view, and writes its
// response. Unresolved paths and web.Http404 errors go through the 404
// view; other view errors become 500s. The session is saved onto whatever
// response is ultimately written, so writes made before an error or 404
// still persist.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := a.newRequest(r)

	resp := a.dispatch(ctx, req, r)

	if a.sessions != nil {
		if err := a.sessions.Save(resp, req.Session()); err != nil {
			a.logger.Error(ctx, err, "session save failed", "path", r.URL.Path)
		}
	}

	a.write(ctx, w, resp)
}

func (a *App) dispatch(ctx context.Context, req *web.Request, r *http.Request) *web.Response {
	match, err := a.router.Resolve(r.URL.Path)
	if err != nil {
		if resp := a.appendSlashRedirect(r); resp != nil {
			return resp
		}
		return a.notFoundResponse(req, fmt.Sprintf("no URL pattern matches %q", r.URL.Path))
	}

	req.SetArgs(match.Args)

	resp, err := match.View.ServeView(req)
	switch {
	case err != nil && web.IsNotFound(err):
		return a.notFoundResponse(req, err.Error())
	case err != nil:
		a.logger.Error(ctx, err, "view failed",
			"path", r.URL.Path, "route", match.Route, "name", match.Name)
		return a.serverErrorResponse(err)
	case resp == nil:
		a.logger.Error(ctx, nil, "view returned no response and no error",
			"path", r.URL.Path, "route", match.Route)
		return a.serverErrorResponse(nil)
	}

	return resp
}

func (a *App) newRequest(r *http.Request) *web.Request {
	env := web.Env{
		Reverser:  a.router,
		Templates: a.templates,
	}
	if a.sessions != nil {
		env.Session = a.sessions.Load(r)
	}
	return web.NewRequest(r, env)
}

// appendSlashRedirect returns a 301 to path+"/" when that variant resolves.
// Only GET and HEAD are redirected; redirecting a POST would drop its body.
func (a *App) appendSlashRedirect(r *http.Request) *web.Response {
	if !a.appendSlash {
		return nil
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return nil
	}
	path := r.URL.Path
	if len(path) == 0 || path[len(path)-1] == '/' {
		return nil
	}
	if _, err := a.router.Resolve(path + "/"); err != nil {
		return nil
	}

	target := path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return web.PermanentRedirect(target)
}

// notFoundResponse runs the custom 404 view against the same request the
// failing view saw, so a session loaded (or modified) earlier carries over.
func (a *App) notFoundResponse(req *web.Request, message string) *web.Response {
	if a.notFound != nil {
		req.SetArgs(map[string]any{"message": message})
		resp, err := a.notFound(req)
		if err == nil && resp != nil {
			return resp
		}
		a.logger.Error(req.Raw.Context(), err, "custom 404 view failed", "path", req.Path())
	}
	return web.NotFound("<h1>Not Found</h1><p>" + html.EscapeString(message) + "</p>")
}

func (a *App) serverErrorResponse(err error) *web.Response {
	body := "<h1>Server Error (500)</h1>"
	if a.debug && err != nil {
		body += "<pre>" + html.EscapeString(err.Error()) + "</pre>"
	}
	resp := web.HTML(body)
	resp.Status = http.StatusInternalServerError
	return resp
}

func (a *App) write(ctx context.Context, w http.ResponseWriter, resp *web.Response) {
	if err := resp.Write(w); err != nil {
		a.logger.Error(ctx, err, "response write failed")
	}
}

