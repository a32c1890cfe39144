package request

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Method is an HTTP method
type Method string

// Supported methods
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
	MethodHead   Method = http.MethodHead
)

// ParseMethod validates a method name, case-insensitively
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead:
		return m, nil
	case "":
		return MethodGet, nil
	}
	return "", fmt.Errorf("unsupported HTTP method: %q", s)
}

// Scheme is a URL scheme
type Scheme string

// Supported schemes
const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// Spec is an immutable, possibly partial description of one HTTP request.
// Every modification goes through Overlay and yields a new Spec.
type Spec struct {
	scheme        Scheme
	host          string
	path          Path
	method        Method
	params        string
	query         Values
	fragment      string
	headers       map[string]string
	body          []byte
	trailingSlash bool
	encoding      Encoding
}

// Option overlays one field of a Spec
type Option func(*Spec)

// New builds a Spec from options applied to the zero Spec
func New(opts ...Option) Spec {
	return Spec{}.Overlay(opts...)
}

// Overlay returns a copy of s with opts applied. Query and headers merge,
// every other field is replaced.
func (s Spec) Overlay(opts ...Option) Spec {
	out := s
	out.headers = maps.Clone(s.headers)
	out.body = slices.Clone(s.body)
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// WithScheme replaces the scheme
func WithScheme(scheme Scheme) Option {
	return func(s *Spec) { s.scheme = scheme }
}

// WithHost replaces the host
func WithHost(host string) Option {
	return func(s *Spec) { s.host = host }
}

// WithPath replaces the path
func WithPath(p Path) Option {
	return func(s *Spec) { s.path = p }
}

// WithMethod replaces the method
func WithMethod(m Method) Option {
	return func(s *Spec) { s.method = m }
}

// WithParams replaces the raw ;params component
func WithParams(params string) Option {
	return func(s *Spec) { s.params = params }
}

// WithFragment replaces the fragment
func WithFragment(fragment string) Option {
	return func(s *Spec) { s.fragment = fragment }
}

// WithBody replaces the body. A nil body means absent.
func WithBody(body []byte) Option {
	body = slices.Clone(body)
	return func(s *Spec) { s.body = slices.Clone(body) }
}

// WithTrailingSlash replaces the trailing-slash flag
func WithTrailingSlash(on bool) Option {
	return func(s *Spec) { s.trailingSlash = on }
}

// WithEncoding replaces the query encoding options
func WithEncoding(e Encoding) Option {
	return func(s *Spec) { s.encoding = e }
}

// WithQuery merges q over the current query
func WithQuery(q Values) Option {
	q = q.clone()
	return func(s *Spec) { s.query = s.query.Merge(q) }
}

// WithHeaders merges h over the current headers
func WithHeaders(h map[string]string) Option {
	h = maps.Clone(h)
	return func(s *Spec) {
		if len(h) == 0 {
			return
		}
		if s.headers == nil {
			s.headers = make(map[string]string, len(h))
		}
		maps.Copy(s.headers, h)
	}
}

// Scheme returns the scheme
func (s Spec) Scheme() Scheme { return s.scheme }

// Host returns the host
func (s Spec) Host() string { return s.host }

// Path returns the path
func (s Spec) Path() Path { return s.path }

// Method returns the method
func (s Spec) Method() Method { return s.method }

// Params returns the raw ;params component
func (s Spec) Params() string { return s.params }

// Fragment returns the fragment
func (s Spec) Fragment() string { return s.fragment }

// TrailingSlash reports the trailing-slash flag
func (s Spec) TrailingSlash() bool { return s.trailingSlash }

// Encoding returns the query encoding options
func (s Spec) Encoding() Encoding { return s.encoding }

// Query returns the query values
func (s Spec) Query() Values { return s.query.clone() }

// Headers returns a copy of the headers
func (s Spec) Headers() map[string]string { return maps.Clone(s.headers) }

// Body returns a copy of the body, nil when absent
func (s Spec) Body() []byte { return slices.Clone(s.body) }

// EffectivePath renders the path, forcing exactly one trailing separator
// when the trailing-slash flag is set
func (s Spec) EffectivePath() string {
	p := s.path.String()
	if s.trailingSlash {
		p = strings.TrimRight(p, Separator) + Separator
	}
	return p
}

// EncodedQuery encodes the query with the configured encoding
func (s Spec) EncodedQuery() string {
	return s.encoding.Encode(s.query)
}

// URI assembles the full request URI
func (s Spec) URI() string {
	var b strings.Builder
	if s.scheme != "" {
		b.WriteString(string(s.scheme))
		b.WriteString(":")
	}
	if s.host != "" {
		b.WriteString("//")
		b.WriteString(s.host)
	}
	b.WriteString(s.EffectivePath())
	if s.params != "" {
		b.WriteString(";")
		b.WriteString(s.params)
	}
	if q := s.EncodedQuery(); q != "" {
		b.WriteString("?")
		b.WriteString(q)
	}
	if s.fragment != "" {
		b.WriteString("#")
		b.WriteString(s.fragment)
	}
	return b.String()
}

// String implements fmt.Stringer for logging
func (s Spec) String() string {
	method := s.method
	if method == "" {
		method = MethodGet
	}
	return fmt.Sprintf("%s %s", method, s.URI())
}

// Send dispatches s through t
func (s Spec) Send(ctx context.Context, t Transport) (*Response, error) {
	method := s.method
	if method == "" {
		method = MethodGet
	}
	return t.Send(ctx, Outgoing{
		Method:  method,
		URI:     s.URI(),
		Headers: s.Headers(),
		Body:    s.Body(),
	})
}
