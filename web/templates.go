package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"sync"
)

// Templates loads and caches html/template sets for Render. Each named
// template is parsed together with the configured partial globs, so layouts
// and shared blocks are available everywhere. With reload enabled (dev mode)
// the cache is bypassed and every render re-parses from the filesystem.
type Templates struct {
	fsys         fs.FS
	partials     []string
	funcs        template.FuncMap
	reverser     Reverser
	staticPrefix string
	reload       bool

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// TemplatesOption configures a template set.
type TemplatesOption func(*Templates)

// WithPartials adds glob patterns (relative to the template FS) parsed into
// every template, e.g. "partials/*.html" or "base.html".
func WithPartials(globs ...string) TemplatesOption {
	return func(t *Templates) { t.partials = append(t.partials, globs...) }
}

// WithFuncs merges extra functions into the template FuncMap.
func WithFuncs(funcs template.FuncMap) TemplatesOption {
	return func(t *Templates) {
		for k, v := range funcs {
			t.funcs[k] = v
		}
	}
}

// WithReverser installs the URL reverser backing the template "url"
// function.
func WithReverser(r Reverser) TemplatesOption {
	return func(t *Templates) { t.reverser = r }
}

// WithStaticPrefix sets the prefix the template "static" function joins
// asset paths onto. Defaults to "/static/".
func WithStaticPrefix(prefix string) TemplatesOption {
	return func(t *Templates) { t.staticPrefix = prefix }
}

// WithReload disables the parse cache so template edits show up without a
// restart.
func WithReload(reload bool) TemplatesOption {
	return func(t *Templates) { t.reload = reload }
}

// NewTemplates creates a template set reading from fsys.
func NewTemplates(fsys fs.FS, opts ...TemplatesOption) *Templates {
	t := &Templates{
		fsys:         fsys,
		funcs:        make(template.FuncMap),
		staticPrefix: "/static/",
		cache:        make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DirTemplates creates a template set reading from a directory on disk.
func DirTemplates(dir string, opts ...TemplatesOption) *Templates {
	return NewTemplates(os.DirFS(dir), opts...)
}

// BindReverser installs the URL reverser after construction. The app calls
// it so template sets built before the router still get a working "url"
// function.
func (t *Templates) BindReverser(r Reverser) {
	t.reverser = r
}

// Render executes the named template with data, writing HTML to w.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	tmpl, err := t.load(name)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(w, path.Base(name), data); err != nil {
		return NewTemplateError("template_execute", fmt.Sprintf("executing template %q", name), err)
	}
	return nil
}

// Invalidate drops the parse cache. The dev server calls this on template
// file changes.
func (t *Templates) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache = make(map[string]*template.Template)
}

func (t *Templates) load(name string) (*template.Template, error) {
	if !t.reload {
		t.mu.RLock()
		cached, ok := t.cache[name]
		t.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	patterns := make([]string, 0, len(t.partials)+1)
	patterns = append(patterns, t.partials...)
	patterns = append(patterns, name)

	tmpl, err := template.New(path.Base(name)).
		Funcs(t.builtinFuncs()).
		Funcs(t.funcs).
		ParseFS(t.fsys, patterns...)
	if err != nil {
		return nil, NewTemplateError("template_parse", fmt.Sprintf("parsing template %q", name), err)
	}

	if !t.reload {
		t.mu.Lock()
		t.cache[name] = tmpl
		t.mu.Unlock()
	}
	return tmpl, nil
}

func (t *Templates) builtinFuncs() template.FuncMap {
	return template.FuncMap{
		// url reverses a named pattern from inside a template, like
		// {{ url "post-detail" .Post.ID }}.
		"url": func(name string, args ...any) (string, error) {
			if t.reverser == nil {
				return "", fmt.Errorf("no URL reverser configured")
			}
			return t.reverser.Reverse(name, args...)
		},
		"static": func(p string) string {
			return t.staticPrefix + p
		},
	}
}
