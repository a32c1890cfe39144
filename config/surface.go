package config

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/restbind/api"
	"github.com/s0up4200/restbind/endpoint"
	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
	"github.com/s0up4200/restbind/transport"
)

// Config declared endpoints carry no Go types; bodies and responses pass
// through as raw JSON.
var noSchema schema.Type

// BuildSurface turns the declared endpoints and groups into an api.Surface.
// Names are processed in sorted order so errors are deterministic.
func BuildSurface(cfg *Config) (*api.Surface, error) {
	surface := api.NewSurface()

	for _, name := range sortedNames(cfg.Endpoints) {
		ep := cfg.Endpoints[name]
		defn, err := endpoint.NewDefinition(request.Method(ep.Method), ep.URL, endpointOptions(name, ep)...)
		if err != nil {
			return nil, fmt.Errorf("endpoints.%s: %w", name, err)
		}
		surface.Endpoint(name, defn)
	}

	for _, name := range sortedNames(cfg.Groups) {
		g := cfg.Groups[name]

		actions := make([]*endpoint.Action, 0, len(g.Actions)+len(g.Custom))
		for _, action := range g.Actions {
			actions = append(actions, standardAction(action))
		}
		for _, custom := range sortedNames(g.Custom) {
			ep := g.Custom[custom]
			opts := append([]endpoint.Option{endpoint.WithURL(ep.URL)}, endpointOptions(custom, ep)...)
			actions = append(actions, endpoint.NewAction(custom, request.Method(ep.Method), opts...))
		}

		group, err := endpoint.NewGroup(g.URL, actions, g.SharedArgs...)
		if err != nil {
			return nil, fmt.Errorf("groups.%s: %w", name, err)
		}
		surface.Group(name, group)
	}

	if err := surface.Validate(); err != nil {
		return nil, err
	}
	return surface, nil
}

// NewClient creates the configured client with the declared surface
func NewClient(cfg *Config, logger zerolog.Logger) (*api.Client, error) {
	surface, err := BuildSurface(cfg)
	if err != nil {
		return nil, err
	}

	c := cfg.Connection
	trOpts := []transport.Option{
		transport.WithLogger(logger),
		transport.WithUserAgent(c.UserAgent),
	}
	if c.Timeout > 0 {
		trOpts = append(trOpts, transport.WithTimeout(c.Timeout))
	}
	if c.Tracing {
		trOpts = append(trOpts, transport.WithTracing())
	}

	opts := []api.Option{
		api.WithScheme(request.Scheme(c.Scheme)),
		api.WithPathPrefix(c.PathPrefix),
		api.WithTrailingSlash(c.TrailingSlash),
		api.WithEncoding(encoding(c.Query)),
		api.WithHeaders(c.Headers),
		api.WithTransport(transport.New(trOpts...)),
		api.WithLogger(logger),
		api.WithSurface(surface),
	}

	if c.JSON {
		return api.NewJSON(c.Host, opts...)
	}
	return api.New(c.Host, opts...)
}

func endpointOptions(name string, ep EndpointConfig) []endpoint.Option {
	opts := []endpoint.Option{endpoint.WithName(name)}
	if len(ep.Args) > 0 {
		opts = append(opts, endpoint.WithArgNames(ep.Args...))
	}
	for _, q := range ep.Query {
		if q.FromArg {
			opts = append(opts, endpoint.WithQueryFromArg(q.Key))
			continue
		}
		opts = append(opts, endpoint.WithDefaultQuery(q.Key, q.Value))
	}
	return opts
}

func standardAction(name string) *endpoint.Action {
	switch name {
	case endpoint.ActionList:
		return endpoint.List(noSchema)
	case endpoint.ActionCreate:
		return endpoint.Create(noSchema)
	case endpoint.ActionRetrieve:
		return endpoint.Retrieve(noSchema)
	case endpoint.ActionUpdate:
		return endpoint.Update(noSchema, noSchema)
	case endpoint.ActionPartialUpdate:
		return endpoint.PartialUpdate(noSchema)
	case endpoint.ActionDestroy:
		return endpoint.Destroy()
	case endpoint.ActionHead:
		return endpoint.Head()
	}
	return nil
}

func encoding(q QueryConfig) request.Encoding {
	e := request.Encoding{SpaceAsPercent: q.SpaceAsPercent}
	if q.Sequence == "comma" {
		e.Sequence = request.SequenceComma
	}
	return e
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
