package api

import (
	"context"
	"maps"

	"github.com/rs/zerolog"

	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
)

// HeaderFunc computes headers at request time, e.g. a rotating auth token
type HeaderFunc func() map[string]string

// ResponseProcessor turns a raw response into a call result
type ResponseProcessor func(ctx context.Context, resp *request.Response, spec request.Spec) (any, error)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	scheme        request.Scheme
	pathPrefix    request.Path
	trailingSlash bool
	encoding      request.Encoding
	headers       map[string]string
	contentType   string
	headerFunc    HeaderFunc
	transport     request.Transport
	codec         schema.Codec
	processor     ResponseProcessor
	logger        zerolog.Logger
	surface       *Surface
}

// WithScheme sets the URL scheme (http or https).
func WithScheme(scheme request.Scheme) Option {
	return func(o *clientOptions) {
		o.scheme = scheme
	}
}

// WithPathPrefix sets the prefix joined in front of every endpoint path.
func WithPathPrefix(prefix any) Option {
	return func(o *clientOptions) {
		o.pathPrefix = request.NewPath(prefix)
	}
}

// WithTrailingSlash forces a trailing "/" on every request path.
func WithTrailingSlash(on bool) Option {
	return func(o *clientOptions) {
		o.trailingSlash = on
	}
}

// WithEncoding sets how query strings are encoded.
func WithEncoding(e request.Encoding) Option {
	return func(o *clientOptions) {
		o.encoding = e
	}
}

// WithHeaders adds static headers sent with every request.
func WithHeaders(h map[string]string) Option {
	return func(o *clientOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(h))
		}
		maps.Copy(o.headers, h)
	}
}

// WithHeaderFunc sets a function consulted for headers on every request.
// Its result overrides static headers of the same name.
func WithHeaderFunc(fn HeaderFunc) Option {
	return func(o *clientOptions) {
		o.headerFunc = fn
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t request.Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithCodec replaces the schema codec.
func WithCodec(c schema.Codec) Option {
	return func(o *clientOptions) {
		o.codec = c
	}
}

// WithResponseProcessor replaces the response processor.
func WithResponseProcessor(p ResponseProcessor) Option {
	return func(o *clientOptions) {
		o.processor = p
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithSurface declares the named endpoints and groups of the client.
func WithSurface(s *Surface) Option {
	return func(o *clientOptions) {
		o.surface = s
	}
}
