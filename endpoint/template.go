package endpoint

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/s0up4200/restbind/request"
)

var placeholderName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// token is either literal text or a {placeholder}
type token struct {
	text        string
	placeholder bool
}

// parseTemplate splits a url template into literal and placeholder tokens
func parseTemplate(tmpl string) ([]token, error) {
	var tokens []token
	rest := tmpl
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		closing := strings.IndexByte(rest, '}')
		if open < 0 {
			if closing >= 0 {
				return nil, fmt.Errorf("unbalanced '}' in %q", tmpl)
			}
			tokens = append(tokens, token{text: rest})
			break
		}
		if closing >= 0 && closing < open {
			return nil, fmt.Errorf("unbalanced '}' in %q", tmpl)
		}
		if open > 0 {
			tokens = append(tokens, token{text: rest[:open]})
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unclosed '{' in %q", tmpl)
		}
		name := rest[open+1 : open+end]
		if !placeholderName.MatchString(name) {
			return nil, fmt.Errorf("invalid placeholder %q in %q", name, tmpl)
		}
		tokens = append(tokens, token{text: name, placeholder: true})
		rest = rest[open+end+1:]
	}
	return tokens, nil
}

// placeholders returns placeholder names in order of appearance
func placeholders(tokens []token) []string {
	var names []string
	for _, t := range tokens {
		if t.placeholder {
			names = append(names, t.text)
		}
	}
	return names
}

// formatArg renders an argument for a path placeholder. Sequences are comma joined.
func formatArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case request.Path:
		return t.Value()
	case fmt.Stringer:
		return t.String()
	}
	return strings.Join(argStrings(v), ",")
}

// argStrings renders an argument as one or more query values
func argStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{t}
	case []byte:
		return []string{string(t)}
	case []string:
		return t
	case request.Path:
		return []string{t.Value()}
	case fmt.Stringer:
		return []string{t.String()}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, rv.Len())
		for i := range rv.Len() {
			out[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}
