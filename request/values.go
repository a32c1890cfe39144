package request

import (
	"net/url"
	"slices"
	"sort"
)

// Values is an insertion-ordered query mapping. A key may carry several
// values; how they are encoded is decided by Encoding.
type Values struct {
	keys []string
	vals map[string][]string
}

// NewValues builds Values from alternating key/value strings
func NewValues(kv ...string) Values {
	var v Values
	for i := 0; i+1 < len(kv); i += 2 {
		v = v.With(kv[i], kv[i+1])
	}
	return v
}

// FromURLValues converts url.Values, sorting keys for a deterministic order
func FromURLValues(uv url.Values) Values {
	keys := make([]string, 0, len(uv))
	for k := range uv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var v Values
	for _, k := range keys {
		v = v.With(k, uv[k]...)
	}
	return v
}

// FromMap converts a plain map, sorting keys
func FromMap(m map[string]string) Values {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var v Values
	for _, k := range keys {
		v = v.With(k, m[k])
	}
	return v
}

// With returns a copy with key set to vals. An existing key keeps its position.
func (v Values) With(key string, vals ...string) Values {
	out := v.clone()
	if out.vals == nil {
		out.vals = make(map[string][]string)
	}
	if _, ok := out.vals[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.vals[key] = slices.Clone(vals)
	return out
}

// Without returns a copy with key removed
func (v Values) Without(key string) Values {
	if _, ok := v.vals[key]; !ok {
		return v
	}
	out := v.clone()
	delete(out.vals, key)
	out.keys = slices.DeleteFunc(out.keys, func(k string) bool { return k == key })
	return out
}

// Merge overlays other on top of v. Keys in other win, keys only in v are kept.
func (v Values) Merge(other Values) Values {
	out := v
	for _, k := range other.keys {
		out = out.With(k, other.vals[k]...)
	}
	return out
}

// Get returns the first value for key
func (v Values) Get(key string) string {
	if vals := v.vals[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// All returns a copy of every value stored for key
func (v Values) All(key string) []string {
	return slices.Clone(v.vals[key])
}

// Has reports whether key is present
func (v Values) Has(key string) bool {
	_, ok := v.vals[key]
	return ok
}

// Keys returns the keys in insertion order
func (v Values) Keys() []string {
	return slices.Clone(v.keys)
}

// Len returns the number of keys
func (v Values) Len() int {
	return len(v.keys)
}

// Map flattens to a first-value map, mostly useful in tests and logs
func (v Values) Map() map[string]string {
	m := make(map[string]string, len(v.keys))
	for _, k := range v.keys {
		m[k] = v.Get(k)
	}
	return m
}

func (v Values) clone() Values {
	out := Values{keys: slices.Clone(v.keys)}
	if v.vals != nil {
		out.vals = make(map[string][]string, len(v.vals))
		for k, vals := range v.vals {
			out.vals[k] = slices.Clone(vals)
		}
	}
	return out
}
