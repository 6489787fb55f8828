package web

import (
	"net/http"
	"sort"
	"strings"
)

// View maps a request to a response. It is the unit of logic the URL
// dispatcher selects.
type View interface {
	ServeView(*Request) (*Response, error)
}

// ViewFunc adapts a plain function to the View interface, for Django-style
// function views.
type ViewFunc func(*Request) (*Response, error)

// ServeView calls f.
func (f ViewFunc) ServeView(r *Request) (*Response, error) {
	return f(r)
}

// Per-method handler interfaces. A struct view implements the ones it
// supports and Dispatch routes by request method, the Go rendition of
// class-based view dispatch.
type (
	GetHandler interface {
		Get(*Request) (*Response, error)
	}
	PostHandler interface {
		Post(*Request) (*Response, error)
	}
	PutHandler interface {
		Put(*Request) (*Response, error)
	}
	PatchHandler interface {
		Patch(*Request) (*Response, error)
	}
	DeleteHandler interface {
		Delete(*Request) (*Response, error)
	}
)

// Dispatch wraps a struct view into a View that routes each request to the
// method handler matching its HTTP method. HEAD falls back to Get, OPTIONS
// is answered automatically with the Allow header, and unsupported methods
// get 405 Method Not Allowed:
//
//	type PostCreate struct{ Store *Store }
//
//	func (v PostCreate) Get(r *web.Request) (*web.Response, error)  { ... show form ... }
//	func (v PostCreate) Post(r *web.Request) (*web.Response, error) { ... save, redirect ... }
//
//	urls.Path("create/", web.Dispatch(PostCreate{store}), "post-create")
func Dispatch(view any) View {
	return ViewFunc(func(r *Request) (*Response, error) {
		switch r.Method() {
		case http.MethodGet, http.MethodHead:
			if h, ok := view.(GetHandler); ok {
				return h.Get(r)
			}
		case http.MethodPost:
			if h, ok := view.(PostHandler); ok {
				return h.Post(r)
			}
		case http.MethodPut:
			if h, ok := view.(PutHandler); ok {
				return h.Put(r)
			}
		case http.MethodPatch:
			if h, ok := view.(PatchHandler); ok {
				return h.Patch(r)
			}
		case http.MethodDelete:
			if h, ok := view.(DeleteHandler); ok {
				return h.Delete(r)
			}
		case http.MethodOptions:
			resp := NewResponse()
			resp.Status = http.StatusNoContent
			resp.Header.Set("Allow", allowedMethods(view))
			return resp, nil
		}

		resp := Text("method not allowed")
		resp.Status = http.StatusMethodNotAllowed
		resp.Header.Set("Allow", allowedMethods(view))
		return resp, nil
	})
}

func allowedMethods(view any) string {
	var methods []string
	if _, ok := view.(GetHandler); ok {
		methods = append(methods, http.MethodGet, http.MethodHead)
	}
	if _, ok := view.(PostHandler); ok {
		methods = append(methods, http.MethodPost)
	}
	if _, ok := view.(PutHandler); ok {
		methods = append(methods, http.MethodPut)
	}
	if _, ok := view.(PatchHandler); ok {
		methods = append(methods, http.MethodPatch)
	}
	if _, ok := view.(DeleteHandler); ok {
		methods = append(methods, http.MethodDelete)
	}
	methods = append(methods, http.MethodOptions)
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
