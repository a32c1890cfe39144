package schema

import (
	"fmt"
	"net/url"
	"reflect"

	gschema "github.com/gorilla/schema"

	"github.com/s0up4200/restbind/request"
)

var queryEncoder = gschema.NewEncoder()

// EncodeQuery converts a call-site query into ordered request values.
// Maps and url.Values are accepted as is; structs are encoded from their
// `schema` field tags. Values of a map[string]any are formatted with fmt,
// slices becoming repeated values.
func EncodeQuery(v any) (request.Values, error) {
	switch q := v.(type) {
	case nil:
		return request.Values{}, nil
	case request.Values:
		return q, nil
	case map[string]string:
		return request.FromMap(q), nil
	case map[string][]string:
		return request.FromURLValues(url.Values(q)), nil
	case url.Values:
		return request.FromURLValues(q), nil
	case map[string]any:
		dst := make(url.Values, len(q))
		for k, val := range q {
			dst[k] = queryStrings(val)
		}
		return request.FromURLValues(dst), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return request.Values{}, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return request.Values{}, fmt.Errorf("schema: cannot encode %T as query", v)
	}

	dst := url.Values{}
	if err := queryEncoder.Encode(rv.Interface(), dst); err != nil {
		return request.Values{}, fmt.Errorf("schema: encode query: %w", err)
	}
	return request.FromURLValues(dst), nil
}

func queryStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{t}
	case []string:
		return t
	case fmt.Stringer:
		return []string{t.String()}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, rv.Len())
		for i := range rv.Len() {
			out[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}
