package urls

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vantage-web/vantage/web"
)

// Entry is a single item in a URL configuration: either a routed view or a
// nested group of entries under a shared prefix.
type Entry struct {
	route    string
	view     web.View
	name     string
	children []Entry
}

// Path routes a view under the given route. The route may contain typed
// parameters in angle brackets:
//
//	Path("", index, "home")
//	Path("<int:pk>/", detail, "post-detail")
//	Path("<uuid:id>/<slug:slug>/", detail, "post-detail-slug")
//
// A parameter without an explicit converter, like <pk>, defaults to str.
// An empty name registers the route without making it reversible.
func Path(route string, view web.View, name string) Entry {
	return Entry{route: route, view: view, name: name}
}

// Include nests a group of entries under a prefix. Prefix parameters are
// captured alongside the child entry's own parameters:
//
//	Include("<int:pk>/",
//		Path("edit/", edit, "post-edit"),
//		Path("delete/", del, "post-delete"),
//	)
func Include(prefix string, entries ...Entry) Entry {
	return Entry{route: prefix, children: entries}
}

// part is one piece of a compiled route: either literal text or a captured
// parameter. Kept around for reversal.
type part struct {
	literal string
	param   string
	conv    Converter
}

// pattern is a compiled route bound to a view.
type pattern struct {
	route string
	name  string
	view  web.View
	re    *regexp.Regexp
	parts []part
}

var paramRe = regexp.MustCompile(`<([^<>/]*)>`)

// regexpMatchFull reports whether s matches expr in its entirety. Used to
// validate reversed values against their converter's pattern.
func regexpMatchFull(expr, s string) bool {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// compileRoute parses Django-style route syntax into regex and parts.
func compileRoute(route string) ([]part, *regexp.Regexp, error) {
	var (
		parts []part
		expr  strings.Builder
		seen  = map[string]bool{}
		rest  = route
	)

	expr.WriteString("^")

	for {
		loc := paramRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}

		literal := rest[:loc[0]]
		inner := rest[loc[2]:loc[3]]
		rest = rest[loc[1]:]

		if strings.Contains(literal, "<") || strings.Contains(literal, ">") {
			return nil, nil, fmt.Errorf("unbalanced angle bracket in route %q", route)
		}
		if literal != "" {
			parts = append(parts, part{literal: literal})
			expr.WriteString(regexp.QuoteMeta(literal))
		}

		convName, paramName := "str", inner
		if idx := strings.Index(inner, ":"); idx >= 0 {
			convName, paramName = inner[:idx], inner[idx+1:]
		}
		if paramName == "" {
			return nil, nil, fmt.Errorf("route %q has a parameter with no name", route)
		}
		if seen[paramName] {
			return nil, nil, fmt.Errorf("route %q captures %q more than once", route, paramName)
		}
		seen[paramName] = true

		conv, ok := lookupConverter(convName)
		if !ok {
			return nil, nil, fmt.Errorf("route %q uses unknown converter %q", route, convName)
		}

		parts = append(parts, part{param: paramName, conv: conv})
		fmt.Fprintf(&expr, "(?P<%s>%s)", paramName, conv.Regex)
	}

	if strings.Contains(rest, "<") || strings.Contains(rest, ">") {
		return nil, nil, fmt.Errorf("unbalanced angle bracket in route %q", route)
	}
	if rest != "" {
		parts = append(parts, part{literal: rest})
		expr.WriteString(regexp.QuoteMeta(rest))
	}

	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, nil, fmt.Errorf("route %q compiled to invalid regex: %w", route, err)
	}

	return parts, re, nil
}

// flatten walks an entry tree, prepending prefixes, and produces compiled
// patterns in declaration order.
func flatten(prefix string, entries []Entry) ([]*pattern, error) {
	var patterns []*pattern

	for _, e := range entries {
		route := prefix + e.route

		if e.children != nil {
			nested, err := flatten(route, e.children)
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, nested...)
			continue
		}

		if e.view == nil {
			return nil, fmt.Errorf("route %q has no view", route)
		}

		parts, re, err := compileRoute(route)
		if err != nil {
			return nil, err
		}

		patterns = append(patterns, &pattern{
			route: route,
			name:  e.name,
			view:  e.view,
			re:    re,
			parts: parts,
		})
	}

	return patterns, nil
}
