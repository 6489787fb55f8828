package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the value a view returns: status, headers, cookies to set,
// and a body. It is inert until Write flushes it to an http.ResponseWriter,
// which keeps views free of writer ordering concerns and makes them easy to
// test.
type Response struct {
	Status  int
	Header  http.Header
	Body    []byte
	cookies []*http.Cookie
}

// NewResponse creates an empty 200 response.
func NewResponse() *Response {
	return &Response{
		Status: http.StatusOK,
		Header: make(http.Header),
	}
}

// HTML creates a 200 text/html response with the given body.
func HTML(body string) *Response {
	r := NewResponse()
	r.Header.Set("Content-Type", "text/html; charset=utf-8")
	r.Body = []byte(body)
	return r
}

// Text creates a 200 text/plain response with the given body.
func Text(body string) *Response {
	r := NewResponse()
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	r.Body = []byte(body)
	return r
}

// JSON creates a 200 application/json response by marshaling v.
func JSON(v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, NewInternalError("json_marshal", "cannot marshal response body", err)
	}
	r := NewResponse()
	r.Header.Set("Content-Type", "application/json")
	r.Body = body
	return r, nil
}

// NotFound creates a 404 text/html response.
func NotFound(body string) *Response {
	r := HTML(body)
	r.Status = http.StatusNotFound
	return r
}

// Redirect creates a 302 response pointing the client at location.
func Redirect(location string) *Response {
	r := NewResponse()
	r.Status = http.StatusFound
	r.Header.Set("Location", location)
	return r
}

// PermanentRedirect creates a 301 response pointing the client at location.
func PermanentRedirect(location string) *Response {
	r := Redirect(location)
	r.Status = http.StatusMovedPermanently
	return r
}

// WithStatus sets the status code and returns the response for chaining.
func (r *Response) WithStatus(status int) *Response {
	r.Status = status
	return r
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	r.Header.Set(key, value)
	return r
}

// SetCookie queues a cookie to be written with the response.
func (r *Response) SetCookie(c *http.Cookie) {
	r.cookies = append(r.cookies, c)
}

// DeleteCookie queues a cookie deletion (expired, empty value).
func (r *Response) DeleteCookie(name, path string) {
	if path == "" {
		path = "/"
	}
	r.cookies = append(r.cookies, &http.Cookie{
		Name:   name,
		Path:   path,
		MaxAge: -1,
	})
}

// Cookies returns the cookies queued on the response.
func (r *Response) Cookies() []*http.Cookie {
	return r.cookies
}

// IsRedirect reports whether the response carries a redirect status.
func (r *Response) IsRedirect() bool {
	return r.Status == http.StatusMovedPermanently ||
		r.Status == http.StatusFound ||
		r.Status == http.StatusSeeOther ||
		r.Status == http.StatusTemporaryRedirect ||
		r.Status == http.StatusPermanentRedirect
}

// Write flushes the response to w: headers first, then cookies, then status
// and body.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	for _, c := range r.cookies {
		http.SetCookie(w, c)
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(r.Body) > 0 {
		if _, err := w.Write(r.Body); err != nil {
			return fmt.Errorf("writing response body: %w", err)
		}
	}
	return nil
}
