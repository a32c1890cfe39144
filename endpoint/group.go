package endpoint

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/s0up4200/restbind/request"
)

// Group is a set of actions sharing a url prefix and leading positional
// arguments. It is a declaration; Bind turns it into callable endpoints.
type Group struct {
	url         request.Path
	sharedArgs  []string
	actions     map[string]*Action
	definitions map[string]*Definition
}

// NewGroup declares a group. Every action definition is synthesized and
// validated here so that binding can never fail.
func NewGroup(url any, actions []*Action, sharedArgs ...string) (*Group, error) {
	g := &Group{
		url:         request.NewPath(url),
		sharedArgs:  slices.Clone(sharedArgs),
		actions:     make(map[string]*Action, len(actions)),
		definitions: make(map[string]*Definition, len(actions)),
	}

	for _, a := range actions {
		if a == nil {
			continue
		}
		if a.name == "" {
			return nil, &DefinitionError{URL: g.url.String(), Reason: "action without a name"}
		}
		if _, dup := g.actions[a.name]; dup {
			return nil, &DefinitionError{Endpoint: a.name, URL: g.url.String(), Reason: "duplicate action"}
		}

		defn, err := a.Definition(g.url, g.sharedArgs)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.url, err)
		}
		g.actions[a.name] = a
		g.definitions[a.name] = defn
	}

	return g, nil
}

// URL returns the group prefix
func (g *Group) URL() request.Path {
	return g.url
}

// SharedArgs returns the argument names every action starts with
func (g *Group) SharedArgs() []string {
	return slices.Clone(g.sharedArgs)
}

// Actions returns the sorted action names
func (g *Group) Actions() []string {
	return sortedKeys(g.definitions)
}

// Definition returns the synthesized definition of an action
func (g *Group) Definition(action string) (*Definition, bool) {
	d, ok := g.definitions[action]
	return d, ok
}

// Bind binds every action against conn
func (g *Group) Bind(conn Connection) *BoundGroup {
	endpoints := make(map[string]*Endpoint, len(g.definitions))
	for name, defn := range g.definitions {
		endpoints[name] = Bind(conn, defn)
	}
	return &BoundGroup{group: g, endpoints: endpoints}
}

// BoundGroup maps action names to endpoints bound to one connection
type BoundGroup struct {
	group     *Group
	endpoints map[string]*Endpoint
}

// Group returns the declaration this was bound from
func (b *BoundGroup) Group() *Group {
	return b.group
}

// Actions returns the sorted action names
func (b *BoundGroup) Actions() []string {
	return sortedKeys(b.endpoints)
}

// Action returns the bound endpoint for name
func (b *BoundGroup) Action(name string) (*Endpoint, error) {
	e, ok := b.endpoints[name]
	if !ok {
		return nil, &UnknownActionError{Action: name, Available: b.Actions()}
	}
	return e, nil
}

// Call invokes the named action
func (b *BoundGroup) Call(ctx context.Context, name string, args Args) (any, error) {
	e, err := b.Action(name)
	if err != nil {
		return nil, err
	}
	return e.Call(ctx, args)
}

// List calls the list action
func (b *BoundGroup) List(ctx context.Context, args ...any) (any, error) {
	return b.Call(ctx, ActionList, Args{Positional: args})
}

// Retrieve calls the retrieve action
func (b *BoundGroup) Retrieve(ctx context.Context, args ...any) (any, error) {
	return b.Call(ctx, ActionRetrieve, Args{Positional: args})
}

// Create calls the create action with body
func (b *BoundGroup) Create(ctx context.Context, body any, args ...any) (any, error) {
	return b.Call(ctx, ActionCreate, Args{Positional: args, Body: body})
}

// Update calls the update action with body
func (b *BoundGroup) Update(ctx context.Context, body any, args ...any) (any, error) {
	return b.Call(ctx, ActionUpdate, Args{Positional: args, Body: body})
}

// PartialUpdate calls the partial_update action with body
func (b *BoundGroup) PartialUpdate(ctx context.Context, body any, args ...any) (any, error) {
	return b.Call(ctx, ActionPartialUpdate, Args{Positional: args, Body: body})
}

// Destroy calls the destroy action
func (b *BoundGroup) Destroy(ctx context.Context, args ...any) (any, error) {
	return b.Call(ctx, ActionDestroy, Args{Positional: args})
}

// Head calls the head action
func (b *BoundGroup) Head(ctx context.Context, args ...any) (any, error) {
	return b.Call(ctx, ActionHead, Args{Positional: args})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := slices.Collect(maps.Keys(m))
	sort.Strings(keys)
	return keys
}
