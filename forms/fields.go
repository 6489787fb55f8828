package forms

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field declares one form input: how its raw value is cleaned into a typed
// value and how it renders as an HTML widget.
type Field interface {
	// Name is the form key the field binds to.
	Name() string

	// Label is the human-readable caption.
	Label() string

	// Clean validates and converts the raw submitted value. present is
	// false when the key was absent from the submission entirely.
	Clean(raw string, present bool) (any, error)

	// Widget renders the field's input element with the given current
	// value.
	Widget(value string) template.HTML
}

var titleCaser = cases.Title(language.English)

// humanize turns a field name like "post_title" into a label like
// "Post Title".
func humanize(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// CharField is a text input.
type CharField struct {
	FieldName   string
	FieldLabel  string
	Required    bool
	MaxLength   int
	Placeholder string
	Validators  []Validator
}

func (f CharField) Name() string { return f.FieldName }

func (f CharField) Label() string {
	if f.FieldLabel != "" {
		return f.FieldLabel
	}
	return humanize(f.FieldName)
}

func (f CharField) Clean(raw string, present bool) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return nil, fmt.Errorf("this field is required")
		}
		return "", nil
	}
	if f.MaxLength > 0 && len(value) > f.MaxLength {
		return nil, fmt.Errorf("ensure this value has at most %d characters (it has %d)", f.MaxLength, len(value))
	}
	for _, v := range f.Validators {
		if err := v(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (f CharField) Widget(value string) template.HTML {
	return inputWidget("text", f.FieldName, value, f.Placeholder)
}

// TextField is a multi-line text input rendered as a textarea.
type TextField struct {
	FieldName   string
	FieldLabel  string
	Required    bool
	Placeholder string
	Validators  []Validator
}

func (f TextField) Name() string { return f.FieldName }

func (f TextField) Label() string {
	if f.FieldLabel != "" {
		return f.FieldLabel
	}
	return humanize(f.FieldName)
}

func (f TextField) Clean(raw string, present bool) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return nil, fmt.Errorf("this field is required")
		}
		return "", nil
	}
	for _, v := range f.Validators {
		if err := v(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (f TextField) Widget(value string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<textarea name=%q placeholder=%q>%s</textarea>`,
		f.FieldName, f.Placeholder, template.HTMLEscapeString(value),
	))
}

// IntegerField is a numeric input cleaned to int.
type IntegerField struct {
	FieldName  string
	FieldLabel string
	Required   bool
	Min, Max   *int
}

func (f IntegerField) Name() string { return f.FieldName }

func (f IntegerField) Label() string {
	if f.FieldLabel != "" {
		return f.FieldLabel
	}
	return humanize(f.FieldName)
}

func (f IntegerField) Clean(raw string, present bool) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return nil, fmt.Errorf("this field is required")
		}
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("enter a whole number")
	}
	if f.Min != nil && n < *f.Min {
		return nil, fmt.Errorf("ensure this value is at least %d", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return nil, fmt.Errorf("ensure this value is at most %d", *f.Max)
	}
	return n, nil
}

func (f IntegerField) Widget(value string) template.HTML {
	return inputWidget("number", f.FieldName, value, "")
}

// BooleanField is a checkbox. An absent key cleans to false, which is why
// Clean receives the present flag.
type BooleanField struct {
	FieldName  string
	FieldLabel string
	Required   bool
}

func (f BooleanField) Name() string { return f.FieldName }

func (f BooleanField) Label() string {
	if f.FieldLabel != "" {
		return f.FieldLabel
	}
	return humanize(f.FieldName)
}

func (f BooleanField) Clean(raw string, present bool) (any, error) {
	if !present || raw == "" || raw == "false" || raw == "0" {
		if f.Required {
			return nil, fmt.Errorf("this field is required")
		}
		return false, nil
	}
	return true, nil
}

func (f BooleanField) Widget(value string) template.HTML {
	checked := ""
	if value == "on" || value == "true" || value == "1" {
		checked = " checked"
	}
	return template.HTML(fmt.Sprintf(`<input type="checkbox" name=%q%s>`, f.FieldName, checked))
}

// Choice is one option of a ChoiceField.
type Choice struct {
	Value string
	Label string
}

// ChoiceField is a select input restricted to a fixed set of values.
type ChoiceField struct {
	FieldName  string
	FieldLabel string
	Required   bool
	Choices    []Choice
	Default    string
}

func (f ChoiceField) Name() string { return f.FieldName }

func (f ChoiceField) Label() string {
	if f.FieldLabel != "" {
		return f.FieldLabel
	}
	return humanize(f.FieldName)
}

func (f ChoiceField) Clean(raw string, present bool) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Default != "" {
			return f.Default, nil
		}
		if f.Required {
			return nil, fmt.Errorf("this field is required")
		}
		return "", nil
	}
	for _, c := range f.Choices {
		if c.Value == value {
			return value, nil
		}
	}
	return nil, fmt.Errorf("select a valid choice, %q is not one of the available choices", value)
}

func (f ChoiceField) Widget(value string) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `<select name=%q>`, f.FieldName)
	for _, c := range f.Choices {
		selected := ""
		if c.Value == value {
			selected = " selected"
		}
		fmt.Fprintf(&b, `<option value=%q%s>%s</option>`,
			c.Value, selected, template.HTMLEscapeString(c.Label))
	}
	b.WriteString(`</select>`)
	return template.HTML(b.String())
}

func inputWidget(inputType, name, value, placeholder string) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `<input type=%q name=%q`, inputType, name)
	if value != "" {
		fmt.Fprintf(&b, ` value=%q`, template.HTMLEscapeString(value))
	}
	if placeholder != "" {
		fmt.Fprintf(&b, ` placeholder=%q`, placeholder)
	}
	b.WriteString(`>`)
	return template.HTML(b.String())
}
