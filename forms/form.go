// Package forms provides declarative form handling: typed fields with
// cleaning and validation, binding from submitted values, and per-field
// error reporting, in the shape of Django's forms module.
package forms

import (
	"html/template"
	"net/url"
)

// Form is an ordered set of fields plus, once bound and validated, cleaned
// data and field errors.
type Form struct {
	fields []Field

	// CleanedData holds the typed values after a successful IsValid.
	CleanedData map[string]any

	bound     bool
	validated bool
	valid     bool
	values    url.Values
	errors    map[string][]string
}

// New creates a form from an ordered list of fields.
func New(fields ...Field) *Form {
	return &Form{fields: fields, errors: make(map[string][]string)}
}

// Bind attaches submitted values to the form. A nil Values leaves the form
// unbound, so views can do the Django `Form(request.POST or None)` dance:
//
//	form := newPostForm()
//	if r.Method() == "POST" {
//		form.Bind(r.Form())
//		if form.IsValid() { ... }
//	}
func (f *Form) Bind(values url.Values) *Form {
	if values == nil {
		return f
	}
	f.bound = true
	f.validated = false
	f.values = values
	return f
}

// IsBound reports whether the form has data attached.
func (f *Form) IsBound() bool {
	return f.bound
}

// IsValid cleans every field and reports whether all passed. An unbound
// form is never valid. Cleaning runs once per Bind; repeated calls are
// cheap.
func (f *Form) IsValid() bool {
	if !f.bound {
		return false
	}
	if f.validated {
		return f.valid
	}
	f.validated = true

	f.errors = make(map[string][]string)
	f.CleanedData = make(map[string]any, len(f.fields))

	for _, field := range f.fields {
		raw := ""
		_, present := f.values[field.Name()]
		if present {
			raw = f.values.Get(field.Name())
		}

		cleaned, err := field.Clean(raw, present)
		if err != nil {
			f.errors[field.Name()] = append(f.errors[field.Name()], err.Error())
			continue
		}
		f.CleanedData[field.Name()] = cleaned
	}

	f.valid = len(f.errors) == 0
	if !f.valid {
		f.CleanedData = nil
	}
	return f.valid
}

// Errors returns per-field error messages from the last validation.
func (f *Form) Errors() map[string][]string {
	return f.errors
}

// String returns the cleaned value of a field as a string, or "" when
// absent. Convenience for the common CharField case.
func (f *Form) String(name string) string {
	if f.CleanedData == nil {
		return ""
	}
	s, _ := f.CleanedData[name].(string)
	return s
}

// Int returns the cleaned value of a field as an int, or 0 when absent.
func (f *Form) Int(name string) int {
	if f.CleanedData == nil {
		return 0
	}
	n, _ := f.CleanedData[name].(int)
	return n
}

// Bool returns the cleaned value of a field as a bool.
func (f *Form) Bool(name string) bool {
	if f.CleanedData == nil {
		return false
	}
	b, _ := f.CleanedData[name].(bool)
	return b
}

// BoundField pairs a field with its submitted value and errors, for
// template rendering.
type BoundField struct {
	Label  string
	Name   string
	Widget template.HTML
	Errors []string
}

// Fields returns the form's fields bound with current values and errors, in
// declaration order. Templates range over it:
//
//	{{ range .form.Fields }}
//	  <label>{{ .Label }}</label> {{ .Widget }}
//	  {{ range .Errors }}<p class="error">{{ . }}</p>{{ end }}
//	{{ end }}
func (f *Form) Fields() []BoundField {
	out := make([]BoundField, 0, len(f.fields))
	for _, field := range f.fields {
		value := ""
		if f.bound {
			value = f.values.Get(field.Name())
		}
		out = append(out, BoundField{
			Label:  field.Label(),
			Name:   field.Name(),
			Widget: field.Widget(value),
			Errors: f.errors[field.Name()],
		})
	}
	return out
}
