package schema

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/restbind/request"
)

type item struct {
	N int    `json:"n" validate:"gte=0"`
	S string `json:"s" validate:"required"`
}

func TestJSON_Parse(t *testing.T) {
	codec := NewJSON()

	tests := []struct {
		name string
		raw  any
	}{
		{name: "bytes", raw: []byte(`{"n":5,"s":"lol"}`)},
		{name: "string", raw: `{"n":5,"s":"lol"}`},
		{name: "raw message", raw: json.RawMessage(`{"n":5,"s":"lol"}`)},
		{name: "decoded map", raw: map[string]any{"n": 5, "s": "lol"}},
		{name: "struct value", raw: item{N: 5, S: "lol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Parse(Of[item](), tt.raw)
			require.NoError(t, err)
			assert.Equal(t, item{N: 5, S: "lol"}, got)
		})
	}
}

func TestJSON_ParseErrors(t *testing.T) {
	codec := NewJSON()

	t.Run("validation error is returned verbatim", func(t *testing.T) {
		_, err := codec.Parse(Of[item](), `{"n":-1,"s":""}`)
		require.Error(t, err)
		var valErrs validator.ValidationErrors
		require.True(t, errors.As(err, &valErrs))
		assert.Len(t, valErrs, 2)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := codec.Parse(Of[item](), `{"n":"five","s":"x"}`)
		var typeErr *json.UnmarshalTypeError
		assert.True(t, errors.As(err, &typeErr))
	})

	t.Run("no type", func(t *testing.T) {
		_, err := codec.Parse(Type{}, `{}`)
		assert.ErrorIs(t, err, ErrNoType)
	})

	t.Run("strict fields", func(t *testing.T) {
		strict := NewJSON(WithStrictFields())
		_, err := strict.Parse(Of[item](), `{"n":1,"s":"x","extra":true}`)
		assert.Error(t, err)

		_, err = codec.Parse(Of[item](), `{"n":1,"s":"x","extra":true}`)
		assert.NoError(t, err)
	})
}

func TestJSON_ParseNonStruct(t *testing.T) {
	codec := NewJSON()

	got, err := codec.Parse(Of[[]item](), `[{"n":1,"s":"a"},{"n":2,"s":"b"}]`)
	require.NoError(t, err)
	assert.Equal(t, []item{{1, "a"}, {2, "b"}}, got)

	m, err := codec.Parse(Of[map[string]bool](), map[string]any{"ok": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ok": true}, m)
}

func TestJSON_Serialize(t *testing.T) {
	codec := NewJSON()

	data, err := codec.Serialize(item{N: 5, S: "lol"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":5,"s":"lol"}`, string(data))

	data, err = codec.Serialize(&item{N: 1, S: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1,"s":"p"}`, string(data))

	_, err = codec.Serialize(item{N: 1})
	assert.Error(t, err)

	data, err = codec.Serialize(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

func TestType(t *testing.T) {
	assert.True(t, Type{}.IsZero())
	assert.False(t, Of[item]().IsZero())
	assert.Equal(t, "schema.item", Of[item]().String())
	assert.Equal(t, Of[item](), TypeOf(item{}))
	assert.True(t, TypeOf(nil).IsZero())
}

type listParams struct {
	Page   int    `schema:"page"`
	Search string `schema:"search,omitempty"`
}

func TestEncodeQuery(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		v, err := EncodeQuery(listParams{Page: 2})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"page": "2"}, v.Map())
	})

	t.Run("struct pointer", func(t *testing.T) {
		v, err := EncodeQuery(&listParams{Page: 1, Search: "abc"})
		require.NoError(t, err)
		assert.Equal(t, []string{"page", "search"}, v.Keys())
	})

	t.Run("map", func(t *testing.T) {
		v, err := EncodeQuery(map[string]string{"b": "2", "a": "1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v.Keys())
	})

	t.Run("untyped map", func(t *testing.T) {
		v, err := EncodeQuery(map[string]any{"limit": 10, "ids": []int{1, 2}, "q": "x y", "empty": nil})
		require.NoError(t, err)
		assert.Equal(t, []string{"empty", "ids", "limit", "q"}, v.Keys())
		assert.Equal(t, []string{"1", "2"}, v.All("ids"))
		assert.Equal(t, "10", v.Get("limit"))
		assert.Equal(t, "x y", v.Get("q"))
		assert.Equal(t, "", v.Get("empty"))
	})

	t.Run("url values", func(t *testing.T) {
		v, err := EncodeQuery(url.Values{"ids": {"1", "2"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, v.All("ids"))
	})

	t.Run("values pass through", func(t *testing.T) {
		in := request.NewValues("z", "1", "a", "2")
		v, err := EncodeQuery(in)
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a"}, v.Keys())
	})

	t.Run("nil", func(t *testing.T) {
		v, err := EncodeQuery(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Len())
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := EncodeQuery(42)
		assert.Error(t, err)
	})
}
