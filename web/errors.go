package web

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes framework errors.
type ErrorKind string

const (
	KindRouting  ErrorKind = "routing"
	KindTemplate ErrorKind = "template"
	KindSession  ErrorKind = "session"
	KindForm     ErrorKind = "form"
	KindConfig   ErrorKind = "config"
	KindInternal ErrorKind = "internal"
)

// Error is a structured framework error carrying a kind, a stable code, and
// an optional cause.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind and code, so callers can compare against a
// prototype without caring about message text.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind && e.Code == t.Code
	}
	return false
}

// NewTemplateError wraps a template loading or execution failure.
func NewTemplateError(code, message string, cause error) *Error {
	return &Error{Kind: KindTemplate, Code: code, Message: message, Cause: cause}
}

// NewInternalError wraps an unexpected failure inside the framework.
func NewInternalError(code, message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Cause: cause}
}

// NotFoundError signals that a view could not find what the request asked
// for. Dispatch turns it into the application's 404 response instead of a
// server error.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// Http404 returns a NotFoundError with the given message. Views return it
// the way Django views raise Http404:
//
//	post, ok := store.Get(pk)
//	if !ok {
//		return nil, web.Http404("post not found")
//	}
func Http404(message string) error {
	return &NotFoundError{Message: message}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
