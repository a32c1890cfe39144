package api

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/s0up4200/restbind/endpoint"
)

// Surface declares the named endpoints and groups of an API. It is shared
// by every client created from it and never holds bound values.
type Surface struct {
	endpoints map[string]*endpoint.Definition
	groups    map[string]*endpoint.Group
	problems  []error
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{
		endpoints: make(map[string]*endpoint.Definition),
		groups:    make(map[string]*endpoint.Group),
	}
}

// Endpoint declares a single endpoint. Unnamed definitions take name.
func (s *Surface) Endpoint(name string, defn *endpoint.Definition) *Surface {
	if err := s.claim(name, defn == nil); err != nil {
		s.problems = append(s.problems, err)
		return s
	}
	if defn.Name() == "" {
		defn = defn.Named(name)
	}
	s.endpoints[name] = defn
	return s
}

// Group declares an endpoint group
func (s *Surface) Group(name string, g *endpoint.Group) *Surface {
	if err := s.claim(name, g == nil); err != nil {
		s.problems = append(s.problems, err)
		return s
	}
	s.groups[name] = g
	return s
}

func (s *Surface) claim(name string, isNil bool) error {
	switch {
	case name == "":
		return errors.New("empty name")
	case isNil:
		return fmt.Errorf("%q: nil declaration", name)
	}
	if _, ok := s.endpoints[name]; ok {
		return fmt.Errorf("%q: declared twice", name)
	}
	if _, ok := s.groups[name]; ok {
		return fmt.Errorf("%q: declared twice", name)
	}
	return nil
}

// Validate reports every problem found while declaring
func (s *Surface) Validate() error {
	if len(s.problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: surface: %w", ErrInvalidConfig, errors.Join(s.problems...))
}

// EndpointNames returns the sorted endpoint names
func (s *Surface) EndpointNames() []string {
	return slices.Sorted(maps.Keys(s.endpoints))
}

// GroupNames returns the sorted group names
func (s *Surface) GroupNames() []string {
	return slices.Sorted(maps.Keys(s.groups))
}

// Definition returns the declared endpoint definition for name
func (s *Surface) Definition(name string) (*endpoint.Definition, bool) {
	d, ok := s.endpoints[name]
	return d, ok
}

// GroupDeclaration returns the declared group for name
func (s *Surface) GroupDeclaration(name string) (*endpoint.Group, bool) {
	g, ok := s.groups[name]
	return g, ok
}
