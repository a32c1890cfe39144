package endpoint

import (
	"slices"

	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
)

// Conventional action names
const (
	ActionList          = "list"
	ActionCreate        = "create"
	ActionRetrieve      = "retrieve"
	ActionUpdate        = "update"
	ActionPartialUpdate = "partial_update"
	ActionDestroy       = "destroy"
	ActionHead          = "head"
)

// idSuffix is the url suffix of single-resource actions
const idSuffix = "{id}"

// Action is a CRUD-style operation declared relative to a group's url
type Action struct {
	fields
}

// NewAction declares a custom action. The name must be unique within a group.
func NewAction(name string, method request.Method, opts ...Option) *Action {
	a := &Action{fields: fields{name: name, method: method}}
	for _, opt := range opts {
		opt(&a.fields)
	}
	return a
}

// Name returns the action name
func (a *Action) Name() string {
	return a.name
}

// Definition synthesizes the endpoint definition of this action under
// prefix, with the group's shared argument names first
func (a *Action) Definition(prefix request.Path, shared []string) (*Definition, error) {
	f := a.fields.clone()
	f.url = prefix.Join(a.url)
	if len(shared) > 0 || len(a.argNames) > 0 {
		f.argNames = append(slices.Clone(shared), a.argNames...)
	}
	return newDefinition(f)
}

func standard(name string, method request.Method, single bool, opts []Option) *Action {
	base := []Option{}
	if single {
		base = append(base, WithURL(idSuffix), WithArgNames("id"))
	}
	return NewAction(name, method, append(base, opts...)...)
}

// List declares GET <group>
func List(response schema.Type, opts ...Option) *Action {
	return standard(ActionList, request.MethodGet, false, append([]Option{WithResponse(response)}, opts...))
}

// Create declares POST <group>
func Create(body schema.Type, opts ...Option) *Action {
	return standard(ActionCreate, request.MethodPost, false, append([]Option{WithBody(body)}, opts...))
}

// Retrieve declares GET <group>/{id}
func Retrieve(response schema.Type, opts ...Option) *Action {
	return standard(ActionRetrieve, request.MethodGet, true, append([]Option{WithResponse(response)}, opts...))
}

// Update declares PUT <group>/{id}
func Update(body, response schema.Type, opts ...Option) *Action {
	return standard(ActionUpdate, request.MethodPut, true, append([]Option{WithBody(body), WithResponse(response)}, opts...))
}

// PartialUpdate declares PATCH <group>/{id}
func PartialUpdate(body schema.Type, opts ...Option) *Action {
	return standard(ActionPartialUpdate, request.MethodPatch, true, append([]Option{WithBody(body)}, opts...))
}

// Destroy declares DELETE <group>/{id}
func Destroy(opts ...Option) *Action {
	return standard(ActionDestroy, request.MethodDelete, true, opts)
}

// Head declares HEAD <group>/{id}
func Head(opts ...Option) *Action {
	return standard(ActionHead, request.MethodHead, true, opts)
}
