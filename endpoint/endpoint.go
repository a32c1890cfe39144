package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
)

// Args are the call-site arguments of one call
type Args struct {
	// Positional fills the declared argument names in order. When set, its
	// length must match exactly and Named is not consulted for them.
	Positional []any
	// Named fills argument names by key when Positional is empty
	Named map[string]any
	// Query overlays the default query: a map, url.Values, request.Values
	// or a struct with schema tags
	Query any
	// Body is the request body, validated through the body schema if any
	Body any
}

// Positional is shorthand for Args{Positional: args}
func Positional(args ...any) Args {
	return Args{Positional: args}
}

// Named is shorthand for Args{Named: args}
func Named(args map[string]any) Args {
	return Args{Named: args}
}

// Endpoint is a Definition bound to a Connection
type Endpoint struct {
	defn *Definition
	conn Connection
}

// Bind binds defn to conn
func Bind(conn Connection, defn *Definition) *Endpoint {
	return &Endpoint{defn: defn, conn: conn}
}

// Definition returns the bound definition
func (e *Endpoint) Definition() *Definition {
	return e.defn
}

// String implements fmt.Stringer
func (e *Endpoint) String() string {
	return fmt.Sprintf("%s %s %s", display(e.defn.name), e.defn.method, e.defn.url)
}

// Do calls the endpoint with positional arguments only
func (e *Endpoint) Do(ctx context.Context, args ...any) (any, error) {
	return e.Call(ctx, Args{Positional: args})
}

// Call builds the request, dispatches it through the connection and decodes
// the result through the response schema when one is configured
func (e *Endpoint) Call(ctx context.Context, args Args) (any, error) {
	spec, err := e.Build(args)
	if err != nil {
		return nil, err
	}

	resp, err := e.conn.Send(ctx, spec)
	if err != nil {
		return nil, err
	}

	payload, err := e.conn.ProcessResponse(ctx, resp, spec)
	if err != nil {
		return nil, err
	}

	if e.defn.response.IsZero() {
		return payload, nil
	}

	raw := payload
	if r, ok := payload.(*request.Response); ok {
		raw = r.Body
	}
	return e.conn.Codec().Parse(e.defn.response, raw)
}

// Build resolves arguments into a complete request without sending it
func (e *Endpoint) Build(args Args) (request.Spec, error) {
	d := e.defn

	pool, err := e.resolveArgs(args)
	if err != nil {
		return request.Spec{}, err
	}

	query, err := e.resolveQuery(args.Query, pool)
	if err != nil {
		return request.Spec{}, err
	}

	path, err := e.render(pool)
	if err != nil {
		return request.Spec{}, err
	}

	spec := request.New(
		request.WithMethod(d.method),
		request.WithPath(request.NewPath(path)),
		request.WithQuery(query),
	)

	if args.Body != nil {
		body, err := e.encodeBody(args.Body)
		if err != nil {
			return request.Spec{}, err
		}
		spec = spec.Overlay(request.WithBody(body))
	}

	return e.conn.OverlayDefaults(spec), nil
}

// resolveArgs builds the path-argument pool
func (e *Endpoint) resolveArgs(args Args) (map[string]any, error) {
	names := e.defn.argNames
	pool := make(map[string]any, len(names))

	if len(args.Positional) > 0 {
		if len(args.Positional) != len(names) {
			return nil, &ArgumentCountError{Endpoint: e.defn.name, Expected: len(names), Got: len(args.Positional)}
		}
		for i, name := range names {
			pool[name] = args.Positional[i]
		}
		return pool, nil
	}

	var missing []string
	for _, name := range names {
		v, ok := args.Named[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		pool[name] = v
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingArgumentError{Endpoint: e.defn.name, Keys: missing}
	}
	return pool, nil
}

// resolveQuery overlays the call query on the defaults and fills
// argument-backed entries, consuming those arguments from the pool
func (e *Endpoint) resolveQuery(callQuery any, pool map[string]any) (request.Values, error) {
	override, err := schema.EncodeQuery(callQuery)
	if err != nil {
		return request.Values{}, err
	}

	var query request.Values
	for _, q := range e.defn.defaultQuery {
		if override.Has(q.Key) {
			query = query.With(q.Key, override.All(q.Key)...)
			continue
		}
		if !q.FromArg {
			query = query.With(q.Key, q.Value)
			continue
		}
		v, ok := pool[q.Key]
		if !ok {
			return request.Values{}, &MissingArgumentError{Endpoint: e.defn.name, Keys: []string{q.Key}}
		}
		delete(pool, q.Key)
		query = query.With(q.Key, argStrings(v)...)
	}
	return query.Merge(override), nil
}

// render substitutes placeholders from the pool. A nil value counts as
// missing.
func (e *Endpoint) render(pool map[string]any) (string, error) {
	var b strings.Builder
	var missing []string
	for _, t := range e.defn.tokens {
		if !t.placeholder {
			b.WriteString(t.text)
			continue
		}
		v, ok := pool[t.text]
		if !ok || v == nil {
			missing = append(missing, t.text)
			continue
		}
		b.WriteString(formatArg(v))
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingArgumentError{Endpoint: e.defn.name, Keys: missing}
	}
	return b.String(), nil
}

func (e *Endpoint) encodeBody(body any) ([]byte, error) {
	codec := e.conn.Codec()
	if !e.defn.body.IsZero() {
		parsed, err := codec.Parse(e.defn.body, body)
		if err != nil {
			return nil, err
		}
		return codec.Serialize(parsed)
	}

	switch b := body.(type) {
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		return []byte(b), nil
	}
	return codec.Serialize(body)
}

// As converts a call result to T. Nil results yield the zero value.
func As[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("result is %T, not %T", v, zero)
	}
	return t, nil
}
