// Package urls implements Django-style URL dispatching for vantage
// applications: declarative pattern lists with typed path converters,
// first-match resolution, and reversal from pattern names back to paths.
package urls

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vantage-web/vantage/web"
)

// ErrNoMatch is returned by Resolve when no pattern matches the path.
var ErrNoMatch = errors.New("no URL pattern matches")

// NoReverseMatchError is returned by Reverse when a path cannot be built
// from the given name and arguments.
type NoReverseMatchError struct {
	Name   string
	Reason string
}

func (e *NoReverseMatchError) Error() string {
	return fmt.Sprintf("no reverse match for %q: %s", e.Name, e.Reason)
}

// Match is the result of resolving a path: the view to invoke, the captured
// arguments with converter-typed values, and the pattern that matched.
type Match struct {
	View  web.View
	Args  map[string]any
	Name  string
	Route string
}

// RouteInfo describes one registered pattern, for listings and diagnostics.
type RouteInfo struct {
	Route string `yaml:"route"`
	Name  string `yaml:"name,omitempty"`
}

// Router holds a compiled URL configuration. Routers are immutable after
// construction and safe for concurrent use.
type Router struct {
	patterns []*pattern
	byName   map[string]*pattern
}

// New compiles an entry tree into a Router. Invalid route syntax, unknown
// converters, and viewless entries are reported as errors. When two patterns
// share a name, the later registration wins for reversal, matching the
// behavior learners expect from pattern name shadowing.
func New(entries ...Entry) (*Router, error) {
	patterns, err := flatten("", entries)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*pattern, len(patterns))
	for _, p := range patterns {
		if p.name != "" {
			byName[p.name] = p
		}
	}

	return &Router{patterns: patterns, byName: byName}, nil
}

// Must is New that panics on error, for static URL configurations declared
// at package level.
func Must(entries ...Entry) *Router {
	r, err := New(entries...)
	if err != nil {
		panic(fmt.Sprintf("urls: invalid URL configuration: %v", err))
	}
	return r
}

// Resolve matches a request path against the configured patterns, in
// declaration order, and returns the first match. The leading slash is
// stripped before matching, so "/posts/5/" resolves against "posts/5/".
func (r *Router) Resolve(path string) (*Match, error) {
	trimmed := strings.TrimPrefix(path, "/")

	for _, p := range r.patterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		args := make(map[string]any)
		ok := true
		for i, name := range p.re.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			conv := p.converterFor(name)
			v, err := conv.Parse(m[i])
			if err != nil {
				// Regex matched but the value does not parse
				// (e.g. integer overflow). Try later patterns.
				ok = false
				break
			}
			args[name] = v
		}
		if !ok {
			continue
		}

		return &Match{View: p.view, Args: args, Name: p.name, Route: p.route}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrNoMatch, path)
}

func (p *pattern) converterFor(param string) Converter {
	for _, pt := range p.parts {
		if pt.param == param {
			return pt.conv
		}
	}
	// Unreachable for compiled patterns; fall back to str.
	c, _ := lookupConverter("str")
	return c
}

// Reverse builds a path from a pattern name and positional arguments, the
// inverse of Resolve. Arguments fill the route's parameters in order and are
// validated against their converters.
func (r *Router) Reverse(name string, args ...any) (string, error) {
	p, ok := r.byName[name]
	if !ok {
		return "", &NoReverseMatchError{Name: name, Reason: "pattern not found"}
	}

	kwargs := make(map[string]any, len(args))
	i := 0
	for _, pt := range p.parts {
		if pt.param == "" {
			continue
		}
		if i >= len(args) {
			return "", &NoReverseMatchError{
				Name:   name,
				Reason: fmt.Sprintf("missing argument for %q", pt.param),
			}
		}
		kwargs[pt.param] = args[i]
		i++
	}
	if i < len(args) {
		return "", &NoReverseMatchError{
			Name:   name,
			Reason: fmt.Sprintf("got %d arguments, route takes %d", len(args), i),
		}
	}

	return r.reverse(p, kwargs)
}

// ReverseMap is Reverse with arguments given by parameter name.
func (r *Router) ReverseMap(name string, kwargs map[string]any) (string, error) {
	p, ok := r.byName[name]
	if !ok {
		return "", &NoReverseMatchError{Name: name, Reason: "pattern not found"}
	}
	return r.reverse(p, kwargs)
}

func (r *Router) reverse(p *pattern, kwargs map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString("/")

	used := 0
	for _, pt := range p.parts {
		if pt.param == "" {
			b.WriteString(pt.literal)
			continue
		}

		v, ok := kwargs[pt.param]
		if !ok {
			return "", &NoReverseMatchError{
				Name:   p.name,
				Reason: fmt.Sprintf("missing argument for %q", pt.param),
			}
		}
		used++

		s, err := pt.conv.Format(v)
		if err != nil {
			return "", &NoReverseMatchError{Name: p.name, Reason: err.Error()}
		}
		if !regexpMatchFull(pt.conv.Regex, s) {
			return "", &NoReverseMatchError{
				Name:   p.name,
				Reason: fmt.Sprintf("%q is not a valid %s value", s, pt.conv.Name),
			}
		}
		b.WriteString(s)
	}

	if used != len(kwargs) {
		return "", &NoReverseMatchError{
			Name:   p.name,
			Reason: fmt.Sprintf("got %d arguments, route takes %d", len(kwargs), used),
		}
	}

	return b.String(), nil
}

// Routes returns the registered patterns in declaration order.
func (r *Router) Routes() []RouteInfo {
	infos := make([]RouteInfo, 0, len(r.patterns))
	for _, p := range r.patterns {
		infos = append(infos, RouteInfo{Route: "/" + p.route, Name: p.name})
	}
	return infos
}
