package endpoint

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrArgumentCount indicates positional arguments of the wrong arity
	ErrArgumentCount = errors.New("wrong number of positional arguments")
	// ErrMissingArgument indicates required arguments were not supplied
	ErrMissingArgument = errors.New("missing required arguments")
	// ErrUnknownAction indicates an action that is not registered on a group
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidDefinition indicates an endpoint declaration that can never be called
	ErrInvalidDefinition = errors.New("invalid endpoint definition")
)

// ArgumentCountError is returned when positional arguments are supplied but
// their count differs from the declared argument names
type ArgumentCountError struct {
	Endpoint string
	Expected int
	Got      int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("call to %s requires %d arguments, but got %d", display(e.Endpoint), e.Expected, e.Got)
}

func (e *ArgumentCountError) Unwrap() error {
	return ErrArgumentCount
}

// MissingArgumentError names the arguments a call did not supply
type MissingArgumentError struct {
	Endpoint string
	Keys     []string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("call to %s missing required arguments: %s", display(e.Endpoint), strings.Join(e.Keys, ", "))
}

func (e *MissingArgumentError) Unwrap() error {
	return ErrMissingArgument
}

// UnknownActionError is returned when a bound group has no such action
type UnknownActionError struct {
	Action    string
	Available []string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q (available: %s)", e.Action, strings.Join(e.Available, ", "))
}

func (e *UnknownActionError) Unwrap() error {
	return ErrUnknownAction
}

// DefinitionError describes why a declaration was rejected
type DefinitionError struct {
	Endpoint string
	URL      string
	Reason   string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("invalid definition %s (%s): %s", display(e.Endpoint), e.URL, e.Reason)
}

func (e *DefinitionError) Unwrap() error {
	return ErrInvalidDefinition
}

func display(name string) string {
	if name == "" {
		return "endpoint"
	}
	return name
}
