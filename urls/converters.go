package urls

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Converter defines how a path parameter is matched, parsed into a typed
// value during resolution, and formatted back into a string during reversal.
type Converter struct {
	// Name is the identifier used in route syntax, e.g. "int" in <int:pk>.
	Name string

	// Regex is the unanchored pattern a path segment must match. It must
	// not contain capturing groups.
	Regex string

	// Parse converts the matched text into a typed value.
	Parse func(s string) (any, error)

	// Format converts a typed value back into path text. It should accept
	// at least the type Parse produces plus plain strings.
	Format func(v any) (string, error)
}

var (
	convertersMu sync.RWMutex
	converters   = map[string]Converter{
		"str": {
			Name:  "str",
			Regex: `[^/]+`,
			Parse: func(s string) (any, error) { return s, nil },
			Format: func(v any) (string, error) {
				return fmt.Sprintf("%v", v), nil
			},
		},
		"int": {
			Name:  "int",
			Regex: `[0-9]+`,
			Parse: func(s string) (any, error) {
				n, err := strconv.Atoi(s)
				if err != nil {
					return nil, fmt.Errorf("not an integer: %q", s)
				}
				return n, nil
			},
			Format: func(v any) (string, error) {
				switch n := v.(type) {
				case int:
					if n < 0 {
						return "", fmt.Errorf("negative value %d", n)
					}
					return strconv.Itoa(n), nil
				case int64:
					if n < 0 {
						return "", fmt.Errorf("negative value %d", n)
					}
					return strconv.FormatInt(n, 10), nil
				case string:
					if _, err := strconv.Atoi(n); err != nil {
						return "", fmt.Errorf("not an integer: %q", n)
					}
					return n, nil
				default:
					return "", fmt.Errorf("cannot format %T as int", v)
				}
			},
		},
		"slug": {
			Name:  "slug",
			Regex: `[-a-zA-Z0-9_]+`,
			Parse: func(s string) (any, error) { return s, nil },
			Format: func(v any) (string, error) {
				s, ok := v.(string)
				if !ok {
					return "", fmt.Errorf("cannot format %T as slug", v)
				}
				return s, nil
			},
		},
		"uuid": {
			Name:  "uuid",
			Regex: `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`,
			Parse: func(s string) (any, error) {
				id, err := uuid.Parse(s)
				if err != nil {
					return nil, fmt.Errorf("invalid UUID %q: %w", s, err)
				}
				return id, nil
			},
			Format: func(v any) (string, error) {
				switch id := v.(type) {
				case uuid.UUID:
					return id.String(), nil
				case string:
					parsed, err := uuid.Parse(id)
					if err != nil {
						return "", fmt.Errorf("invalid UUID %q: %w", id, err)
					}
					return parsed.String(), nil
				default:
					return "", fmt.Errorf("cannot format %T as uuid", v)
				}
			},
		},
		"path": {
			Name:  "path",
			Regex: `.+`,
			Parse: func(s string) (any, error) { return s, nil },
			Format: func(v any) (string, error) {
				s, ok := v.(string)
				if !ok {
					return "", fmt.Errorf("cannot format %T as path", v)
				}
				return s, nil
			},
		},
	}
)

// RegisterConverter makes a custom converter available to route syntax.
// Registering a converter with a builtin name replaces the builtin.
func RegisterConverter(c Converter) error {
	if c.Name == "" {
		return fmt.Errorf("converter name cannot be empty")
	}
	if strings.ContainsAny(c.Name, "<>:/") {
		return fmt.Errorf("converter name %q contains reserved characters", c.Name)
	}
	if c.Regex == "" || c.Parse == nil || c.Format == nil {
		return fmt.Errorf("converter %q is incomplete", c.Name)
	}

	convertersMu.Lock()
	defer convertersMu.Unlock()
	converters[c.Name] = c

	return nil
}

func lookupConverter(name string) (Converter, bool) {
	convertersMu.RLock()
	defer convertersMu.RUnlock()
	c, ok := converters[name]
	return c, ok
}
