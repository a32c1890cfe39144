package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/restbind/request"
)

type table struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "field access", expression: `response.name`},
		{name: "top level key", expression: `rows > 10`},
		{name: "builtin", expression: `len(response)`},
		{name: "empty expression", expression: "  ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `response.name ==`, wantErr: true, errContains: "failed to compile"},
	}

	c := NewCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := c.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, sel.Expression())
		})
	}
}

func TestSelector_Select(t *testing.T) {
	c := NewCompiler()

	payload := map[string]any{
		"name": "users",
		"rows": float64(42),
		"meta": map[string]any{"content-type": "table"},
		"columns": []any{
			map[string]any{"name": "id"},
			map[string]any{"name": "email"},
		},
	}

	tests := []struct {
		name       string
		expression string
		payload    any
		want       any
	}{
		{name: "field", expression: `response.name`, payload: payload, want: "users"},
		{name: "top level", expression: `rows * 2`, payload: payload, want: float64(84)},
		{name: "map over list", expression: `map(columns, .name)`, payload: payload, want: []any{"id", "email"}},
		{name: "dig", expression: `dig(response, "meta.content-type")`, payload: payload, want: "table"},
		{name: "dig index", expression: `dig(response, "columns.1.name")`, payload: payload, want: "email"},
		{name: "dig miss", expression: `dig(response, "columns.9.name")`, payload: payload, want: nil},
		{name: "icontains", expression: `icontains(name, "USE")`, payload: payload, want: true},
		{name: "list payload", expression: `len(response)`, payload: []any{1.0, 2.0, 3.0}, want: 3},
		{
			name:       "typed struct uses wire names",
			expression: `response.rows`,
			payload:    table{Name: "t", Rows: 3},
			want:       float64(3),
		},
		{
			name:       "raw json response",
			expression: `response.ok`,
			payload:    &request.Response{StatusCode: 200, Body: []byte(`{"ok":true}`)},
			want:       true,
		},
		{
			name:       "raw text response",
			expression: `upper(response)`,
			payload:    &request.Response{StatusCode: 200, Body: []byte(`pong`)},
			want:       "PONG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := c.Compile(tt.expression)
			require.NoError(t, err)

			got, err := sel.Select(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_EvaluationError(t *testing.T) {
	sel, err := NewCompiler().Compile(`response.name + 1`)
	require.NoError(t, err)

	_, err = sel.Select(map[string]any{"name": "x"})
	require.Error(t, err)
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, `response.name + 1`, evalErr.Expression)

	_, err = sel.Select(make(chan int))
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "invalid payload", evalErr.Reason)
}

func TestPredicate_Filter(t *testing.T) {
	c := NewCompiler()
	pred, err := c.CompilePredicate(`rows > 10 and name startsWith "u"`)
	require.NoError(t, err)

	tables := []table{
		{Name: "users", Rows: 42},
		{Name: "unused", Rows: 3},
		{Name: "orders", Rows: 100},
	}

	got, err := pred.Filter(tables)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"name": "users", "rows": float64(42), "columns": nil},
	}, got)

	one, err := pred.Filter(tables[0])
	require.NoError(t, err)
	assert.NotNil(t, one)

	none, err := pred.Filter(tables[1])
	require.NoError(t, err)
	assert.Nil(t, none)

	matched, err := pred.Match(map[string]any{"name": "u", "rows": 11})
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestPredicate_RequiresBool(t *testing.T) {
	c := NewCompiler()

	_, err := c.CompilePredicate(`1 + 2`)
	require.Error(t, err)

	pred, err := c.CompilePredicate(`missing`)
	if err != nil {
		return
	}
	_, err = pred.Match(map[string]any{})
	assert.Error(t, err)
}

func TestCompiler_Cache(t *testing.T) {
	c := NewCompiler(WithCache(2))

	a1, err := c.Compile("response.a")
	require.NoError(t, err)
	a2, err := c.Compile("  response.a  ")
	require.NoError(t, err)
	assert.Same(t, a1.program, a2.program)
	assert.Equal(t, 1, c.Size())

	_, err = c.CompilePredicate("response.a")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size(), "predicates are cached separately")

	_, err = c.Compile("response.b")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	a3, err := c.Compile("response.a")
	require.NoError(t, err)
	assert.NotSame(t, a1.program, a3.program, "evicted programs are recompiled")

	c.Clear()
	assert.Equal(t, 0, c.Size())

	uncached := NewCompiler(WithCache(0))
	_, err = uncached.Compile("response.a")
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}

func TestCompiler_CustomFunctions(t *testing.T) {
	c := NewCompiler(WithCustomFunctions(map[string]any{
		"double": func(f float64) float64 { return f * 2 },
	}))

	sel, err := c.Compile(`double(rows)`)
	require.NoError(t, err)
	got, err := sel.Select(map[string]any{"rows": float64(4)})
	require.NoError(t, err)
	assert.Equal(t, float64(8), got)
}

func TestLRUCache(t *testing.T) {
	c := newLRUCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// b is now least recently used
	c.Put("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
}
