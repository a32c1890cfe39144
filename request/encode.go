package request

import (
	"net/url"
	"strings"
)

// Sequence controls how a multi-valued query key is written
type Sequence int

const (
	// SequenceRepeat writes a=1&a=2
	SequenceRepeat Sequence = iota
	// SequenceComma writes a=1,2
	SequenceComma
)

// Encoding configures query string encoding
type Encoding struct {
	Sequence Sequence
	// SpaceAsPercent escapes spaces as %20 instead of +
	SpaceAsPercent bool
}

// Encode writes values as a query string, keys in insertion order
func (e Encoding) Encode(v Values) string {
	if v.Len() == 0 {
		return ""
	}

	var b strings.Builder
	write := func(key, val string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(e.escape(key))
		b.WriteByte('=')
		b.WriteString(e.escape(val))
	}

	for _, k := range v.keys {
		vals := v.vals[k]
		switch {
		case len(vals) == 0:
			write(k, "")
		case e.Sequence == SequenceComma:
			escaped := make([]string, len(vals))
			for i, val := range vals {
				escaped[i] = e.escape(val)
			}
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(e.escape(k))
			b.WriteByte('=')
			b.WriteString(strings.Join(escaped, ","))
		default:
			for _, val := range vals {
				write(k, val)
			}
		}
	}
	return b.String()
}

func (e Encoding) escape(s string) string {
	escaped := url.QueryEscape(s)
	if e.SpaceAsPercent {
		escaped = strings.ReplaceAll(escaped, "+", "%20")
	}
	return escaped
}
