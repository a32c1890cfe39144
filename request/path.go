package request

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator is the URL path separator
const Separator = "/"

// Path is a normalized URL path fragment. The stored value never carries a
// leading or trailing separator.
type Path struct {
	value string
}

// NewPath builds a Path from a string, number, fmt.Stringer or another Path
func NewPath(v any) Path {
	return Path{value: strings.Trim(stringify(v), Separator)}
}

// Join composes two fragments into "<p>/<other>"
func (p Path) Join(other any) Path {
	o := NewPath(other)
	switch {
	case p.value == "":
		return o
	case o.value == "":
		return p
	}
	return Path{value: p.value + Separator + o.value}
}

// Value returns the stripped form
func (p Path) Value() string {
	return p.value
}

// IsZero reports whether the path is empty
func (p Path) IsZero() bool {
	return p.value == ""
}

// String renders the path with exactly one leading separator
func (p Path) String() string {
	return Separator + p.value
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case Path:
		return t.value
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
