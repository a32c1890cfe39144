package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Type describes the shape a value is parsed into. The zero Type means no
// schema is configured.
type Type struct {
	rt reflect.Type
}

// Of returns the Type for T
func Of[T any]() Type {
	return Type{rt: reflect.TypeFor[T]()}
}

// TypeOf returns the Type of v's dynamic type
func TypeOf(v any) Type {
	if v == nil {
		return Type{}
	}
	return Type{rt: reflect.TypeOf(v)}
}

// IsZero reports whether no schema is configured
func (t Type) IsZero() bool {
	return t.rt == nil
}

// Reflect returns the underlying reflect.Type
func (t Type) Reflect() reflect.Type {
	return t.rt
}

// String returns the type name
func (t Type) String() string {
	if t.rt == nil {
		return "<none>"
	}
	return t.rt.String()
}

// Codec parses raw values into typed values and serializes them back
type Codec interface {
	// Parse validates raw against t and returns a value of type t
	Parse(t Type, raw any) (any, error)

	// Serialize encodes a value for the wire
	Serialize(v any) ([]byte, error)
}

// ErrNoType is returned when Parse is called with the zero Type
var ErrNoType = errors.New("schema: no type configured")

// JSON is a Codec speaking JSON, validating structs with validator tags
type JSON struct {
	validate *validator.Validate
	strict   bool
}

// JSONOption configures a JSON codec
type JSONOption func(*JSON)

// WithValidator replaces the validator instance
func WithValidator(v *validator.Validate) JSONOption {
	return func(j *JSON) {
		j.validate = v
	}
}

// WithStrictFields rejects unknown object fields while parsing
func WithStrictFields() JSONOption {
	return func(j *JSON) {
		j.strict = true
	}
}

// NewJSON creates a JSON codec
func NewJSON(opts ...JSONOption) *JSON {
	j := &JSON{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Parse decodes raw into a new value of type t and validates it. raw may be
// JSON bytes, a JSON string, or an already decoded value.
func (j *JSON) Parse(t Type, raw any) (any, error) {
	if t.IsZero() {
		return nil, ErrNoType
	}

	data, err := toJSON(raw)
	if err != nil {
		return nil, err
	}

	target := reflect.New(t.rt)
	dec := json.NewDecoder(bytes.NewReader(data))
	if j.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(target.Interface()); err != nil {
		return nil, err
	}

	if err := j.check(target); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}

// Serialize validates v when it is a struct and encodes it as JSON
func (j *JSON) Serialize(v any) ([]byte, error) {
	if err := j.check(reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (j *JSON) check(v reflect.Value) error {
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return nil
	}
	return j.validate.Struct(v.Interface())
}

func toJSON(raw any) ([]byte, error) {
	switch r := raw.(type) {
	case nil:
		return []byte("null"), nil
	case []byte:
		return r, nil
	case json.RawMessage:
		return r, nil
	case string:
		return []byte(r), nil
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("schema: re-encode %T: %w", raw, err)
		}
		return data, nil
	}
}
