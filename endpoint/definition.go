package endpoint

import (
	"fmt"
	"slices"

	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
)

// QueryDefault is one default query entry. FromArg entries take their value
// from the argument of the same name, consuming it.
type QueryDefault struct {
	Key     string
	Value   string
	FromArg bool
}

// fields is shared by definitions and actions
type fields struct {
	name         string
	url          request.Path
	method       request.Method
	argNames     []string
	defaultQuery []QueryDefault
	body         schema.Type
	response     schema.Type
}

func (f fields) clone() fields {
	f.argNames = slices.Clone(f.argNames)
	f.defaultQuery = slices.Clone(f.defaultQuery)
	return f
}

// Option configures a Definition or an Action
type Option func(*fields)

// WithName sets the name used in errors and logs
func WithName(name string) Option {
	return func(f *fields) {
		f.name = name
	}
}

// WithURL sets the url template, or the suffix for an action
func WithURL(url any) Option {
	return func(f *fields) {
		f.url = request.NewPath(url)
	}
}

// WithMethod sets the HTTP method
func WithMethod(m request.Method) Option {
	return func(f *fields) {
		f.method = m
	}
}

// WithArgNames sets the ordered positional argument names
func WithArgNames(names ...string) Option {
	return func(f *fields) {
		f.argNames = slices.Clone(names)
	}
}

// WithDefaultQuery adds a literal default query parameter
func WithDefaultQuery(key, value string) Option {
	return func(f *fields) {
		f.setQuery(QueryDefault{Key: key, Value: value})
	}
}

// WithQueryFromArg adds a default query parameter filled from the argument
// with the same name
func WithQueryFromArg(key string) Option {
	return func(f *fields) {
		f.setQuery(QueryDefault{Key: key, FromArg: true})
	}
}

// WithBody sets the body schema
func WithBody(t schema.Type) Option {
	return func(f *fields) {
		f.body = t
	}
}

// WithResponse sets the response schema
func WithResponse(t schema.Type) Option {
	return func(f *fields) {
		f.response = t
	}
}

func (f *fields) setQuery(q QueryDefault) {
	for i := range f.defaultQuery {
		if f.defaultQuery[i].Key == q.Key {
			f.defaultQuery[i] = q
			return
		}
	}
	f.defaultQuery = append(f.defaultQuery, q)
}

// Definition is the static description of one operation. It is immutable
// and shared by every call.
type Definition struct {
	fields
	tokens []token
}

// NewDefinition declares an endpoint and validates it
func NewDefinition(method request.Method, url any, opts ...Option) (*Definition, error) {
	f := fields{
		url:    request.NewPath(url),
		method: method,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return newDefinition(f)
}

// Must panics if err is non-nil. It is meant for package level declarations.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func newDefinition(f fields) (*Definition, error) {
	f = f.clone()
	fail := func(format string, args ...any) (*Definition, error) {
		return nil, &DefinitionError{Endpoint: f.name, URL: f.url.String(), Reason: fmt.Sprintf(format, args...)}
	}

	method, err := request.ParseMethod(string(f.method))
	if err != nil {
		return fail("%v", err)
	}
	f.method = method

	tokens, err := parseTemplate(f.url.Value())
	if err != nil {
		return fail("%v", err)
	}

	// Without declared names the placeholders define the positional order
	if f.argNames == nil {
		for _, p := range placeholders(tokens) {
			if !slices.Contains(f.argNames, p) {
				f.argNames = append(f.argNames, p)
			}
		}
	}

	seen := make(map[string]bool, len(f.argNames))
	for _, name := range f.argNames {
		if name == "" {
			return fail("empty argument name")
		}
		if seen[name] {
			return fail("duplicate argument name %q", name)
		}
		seen[name] = true
	}

	for _, p := range placeholders(tokens) {
		if !seen[p] {
			return fail("placeholder {%s} has no matching argument name", p)
		}
	}

	for _, q := range f.defaultQuery {
		if q.Key == "" {
			return fail("empty default query key")
		}
		if q.FromArg && !seen[q.Key] {
			return fail("query %q is filled from an argument that is not declared", q.Key)
		}
	}

	return &Definition{fields: f, tokens: tokens}, nil
}

// Name returns the endpoint name
func (d *Definition) Name() string { return d.name }

// URL returns the url template
func (d *Definition) URL() request.Path { return d.url }

// Method returns the HTTP method
func (d *Definition) Method() request.Method { return d.method }

// ArgNames returns the positional argument names
func (d *Definition) ArgNames() []string { return slices.Clone(d.argNames) }

// DefaultQuery returns the default query entries in declaration order
func (d *Definition) DefaultQuery() []QueryDefault { return slices.Clone(d.defaultQuery) }

// Body returns the body schema
func (d *Definition) Body() schema.Type { return d.body }

// Response returns the response schema
func (d *Definition) Response() schema.Type { return d.response }

// Placeholders returns the url template placeholders in order
func (d *Definition) Placeholders() []string { return placeholders(d.tokens) }

// Named returns a copy carrying name
func (d *Definition) Named(name string) *Definition {
	c := &Definition{fields: d.fields.clone(), tokens: d.tokens}
	c.name = name
	return c
}

// Variant returns a validated copy with opts applied
func (d *Definition) Variant(opts ...Option) (*Definition, error) {
	f := d.fields.clone()
	for _, opt := range opts {
		opt(&f)
	}
	return newDefinition(f)
}

// AsHead returns a HEAD variant without schemas
func (d *Definition) AsHead(opts ...Option) (*Definition, error) {
	return d.Variant(append([]Option{WithMethod(request.MethodHead), WithBody(schema.Type{}), WithResponse(schema.Type{})}, opts...)...)
}

// AsPost returns a POST variant
func (d *Definition) AsPost(opts ...Option) (*Definition, error) {
	return d.Variant(append([]Option{WithMethod(request.MethodPost)}, opts...)...)
}

// AsPut returns a PUT variant
func (d *Definition) AsPut(opts ...Option) (*Definition, error) {
	return d.Variant(append([]Option{WithMethod(request.MethodPut)}, opts...)...)
}

// AsPatch returns a PATCH variant
func (d *Definition) AsPatch(opts ...Option) (*Definition, error) {
	return d.Variant(append([]Option{WithMethod(request.MethodPatch)}, opts...)...)
}

// AsDelete returns a DELETE variant without schemas
func (d *Definition) AsDelete(opts ...Option) (*Definition, error) {
	return d.Variant(append([]Option{WithMethod(request.MethodDelete), WithBody(schema.Type{}), WithResponse(schema.Type{})}, opts...)...)
}
