package api

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/restbind/endpoint"
	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
	"github.com/s0up4200/restbind/transport"
)

var hostPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+(:[0-9]+)?$`)

// Client is a connection to one API host. It supplies request defaults to
// every endpoint bound to it and caches bound groups per instance.
type Client struct {
	host string
	opts clientOptions

	mu        sync.Mutex
	endpoints map[string]*endpoint.Endpoint
	groups    map[string]*endpoint.BoundGroup
	binds     singleflight.Group
}

var _ endpoint.Connection = (*Client)(nil)

// New creates a client for host. Responses are returned as
// *request.Response unless a processor is configured.
func New(host string, opts ...Option) (*Client, error) {
	return newClient(host, processRaw, nil, "", opts)
}

// NewJSON creates a client speaking JSON: it sends a JSON Accept header,
// a JSON Content-Type on requests with a body, and decodes successful
// responses into Go values.
func NewJSON(host string, opts ...Option) (*Client, error) {
	headers := map[string]string{
		"Accept": "application/json",
	}
	return newClient(host, processJSON, headers, "application/json", opts)
}

func newClient(host string, processor ResponseProcessor, headers map[string]string, contentType string, opts []Option) (*Client, error) {
	o := clientOptions{
		scheme:      request.SchemeHTTPS,
		headers:     headers,
		contentType: contentType,
		processor:   processor,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !hostPattern.MatchString(host) {
		return nil, fmt.Errorf("%w: invalid host %q", ErrInvalidConfig, host)
	}
	switch o.scheme {
	case request.SchemeHTTP, request.SchemeHTTPS:
	default:
		return nil, fmt.Errorf("%w: invalid scheme %q", ErrInvalidConfig, o.scheme)
	}

	if o.surface == nil {
		o.surface = NewSurface()
	}
	if err := o.surface.Validate(); err != nil {
		return nil, err
	}
	if o.transport == nil {
		o.transport = transport.New(transport.WithLogger(o.logger))
	}
	if o.codec == nil {
		o.codec = schema.NewJSON()
	}

	return &Client{
		host:      host,
		opts:      o,
		endpoints: make(map[string]*endpoint.Endpoint),
		groups:    make(map[string]*endpoint.BoundGroup),
	}, nil
}

// Host returns the configured host
func (c *Client) Host() string { return c.host }

// Scheme returns the configured scheme
func (c *Client) Scheme() request.Scheme { return c.opts.scheme }

// PathPrefix returns the prefix joined in front of every endpoint path
func (c *Client) PathPrefix() request.Path { return c.opts.pathPrefix }

// Surface returns the declared surface
func (c *Client) Surface() *Surface { return c.opts.surface }

// Headers returns the headers sent with every request, including the
// header function's current result
func (c *Client) Headers() map[string]string {
	h := maps.Clone(c.opts.headers)
	if c.opts.headerFunc != nil {
		if h == nil {
			h = make(map[string]string)
		}
		maps.Copy(h, c.opts.headerFunc())
	}
	return h
}

// OverlayDefaults applies the connection defaults to a request built by an
// endpoint. Connection headers win over headers already set on spec.
func (c *Client) OverlayDefaults(spec request.Spec) request.Spec {
	var bodyHeaders map[string]string
	if spec.Body() != nil && c.opts.contentType != "" && !hasHeader(spec.Headers(), "Content-Type") {
		bodyHeaders = map[string]string{"Content-Type": c.opts.contentType}
	}

	return spec.Overlay(
		request.WithScheme(c.opts.scheme),
		request.WithHost(c.host),
		request.WithPath(c.opts.pathPrefix.Join(spec.Path())),
		request.WithHeaders(bodyHeaders),
		request.WithHeaders(c.Headers()),
		request.WithTrailingSlash(c.opts.trailingSlash),
		request.WithEncoding(c.opts.encoding),
	)
}

// Send dispatches spec through the transport
func (c *Client) Send(ctx context.Context, spec request.Spec) (*request.Response, error) {
	start := time.Now()
	resp, err := spec.Send(ctx, c.opts.transport)

	event := c.opts.logger.Debug().
		Str("method", string(methodOf(spec))).
		Str("uri", spec.URI()).
		Dur("duration", time.Since(start))
	if err != nil {
		event.Err(err).Msg("Request failed")
		return nil, err
	}
	event.Int("status", resp.StatusCode).Msg("Sent request")

	return resp, nil
}

// ProcessResponse applies the configured response processor
func (c *Client) ProcessResponse(ctx context.Context, resp *request.Response, spec request.Spec) (any, error) {
	return c.opts.processor(ctx, resp, spec)
}

// Codec returns the schema codec
func (c *Client) Codec() schema.Codec {
	return c.opts.codec
}

// Bind binds an ad-hoc definition to this client
func (c *Client) Bind(defn *endpoint.Definition) *endpoint.Endpoint {
	return endpoint.Bind(c, defn)
}

// Endpoint returns the bound endpoint declared as name
func (c *Client) Endpoint(name string) (*endpoint.Endpoint, error) {
	c.mu.Lock()
	e, ok := c.endpoints[name]
	c.mu.Unlock()
	if ok {
		return e, nil
	}

	v, err, _ := c.binds.Do("endpoint:"+name, func() (any, error) {
		defn, ok := c.opts.surface.Definition(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if e, ok := c.endpoints[name]; ok {
			return e, nil
		}
		e := endpoint.Bind(c, defn)
		c.endpoints[name] = e
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*endpoint.Endpoint), nil
}

// Group returns the group declared as name, bound to this client. The
// bound group is created on first access and reused afterwards.
func (c *Client) Group(name string) (*endpoint.BoundGroup, error) {
	c.mu.Lock()
	g, ok := c.groups[name]
	c.mu.Unlock()
	if ok {
		return g, nil
	}

	v, err, _ := c.binds.Do("group:"+name, func() (any, error) {
		decl, ok := c.opts.surface.GroupDeclaration(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if g, ok := c.groups[name]; ok {
			return g, nil
		}
		g := decl.Bind(c)
		c.groups[name] = g
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*endpoint.BoundGroup), nil
}

// Lookup resolves "name" to an endpoint or "group.action" to a group action
func (c *Client) Lookup(target string) (*endpoint.Endpoint, error) {
	if group, action, ok := strings.Cut(target, "."); ok {
		g, err := c.Group(group)
		if err != nil {
			return nil, err
		}
		return g.Action(action)
	}
	return c.Endpoint(target)
}

func processRaw(_ context.Context, resp *request.Response, spec request.Spec) (any, error) {
	if !resp.OK() {
		return nil, newStatusError(resp, spec)
	}
	return resp, nil
}

func processJSON(_ context.Context, resp *request.Response, spec request.Spec) (any, error) {
	if !resp.OK() {
		return nil, newStatusError(resp, spec)
	}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return nil, nil
	}

	var out any
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

func methodOf(spec request.Spec) request.Method {
	if m := spec.Method(); m != "" {
		return m
	}
	return request.MethodGet
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
