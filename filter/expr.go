package filter

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/restbind/request"
)

// DefaultCacheSize is the number of compiled programs kept by a Compiler
// created without WithCache
const DefaultCacheSize = 128

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the compiled program cache size. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size <= 0 {
			c.cache = nil
			return
		}
		c.cache = newLRUCache[*vm.Program](size)
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// Compiler compiles expressions evaluated against call results
type Compiler struct {
	helperFuncs map[string]any
	cache       *lruCache[*vm.Program]
}

// NewCompiler creates a new expr-based compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helperFuncs: createHelperFunctions(),
		cache:       newLRUCache[*vm.Program](DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Selector projects a payload to a value
type Selector struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// Predicate reports whether an item matches
type Predicate struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// Compile compiles a selector expression
func (c *Compiler) Compile(expression string) (*Selector, error) {
	expression, program, err := c.compile(expression, false)
	if err != nil {
		return nil, err
	}
	return &Selector{expression: expression, program: program, helpers: c.helperFuncs}, nil
}

// CompilePredicate compiles an expression that must yield a boolean
func (c *Compiler) CompilePredicate(expression string) (*Predicate, error) {
	expression, program, err := c.compile(expression, true)
	if err != nil {
		return nil, err
	}
	return &Predicate{expression: expression, program: program, helpers: c.helperFuncs}, nil
}

func (c *Compiler) compile(expression string, predicate bool) (string, *vm.Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return "", nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	key := expression
	if predicate {
		key = "?" + expression
	}
	if c.cache != nil {
		if program, ok := c.cache.Get(key); ok {
			return expression, program, nil
		}
	}

	opts := []expr.Option{
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // payload fields are only known at run time
	}
	if predicate {
		opts = append(opts, expr.AsBool())
	}

	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return "", nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	if c.cache != nil {
		c.cache.Put(key, program)
	}
	return expression, program, nil
}

// Clear removes all cached programs
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached programs
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Expression returns the original expression
func (s *Selector) Expression() string {
	return s.expression
}

// Select evaluates the expression against payload. The payload is exposed
// as `response`; object keys are also available at the top level.
func (s *Selector) Select(payload any) (any, error) {
	env, err := createRuntimeEnvironment(s.helpers, payload)
	if err != nil {
		return nil, &EvaluationError{Expression: s.expression, Reason: "invalid payload", Err: err}
	}

	out, err := expr.Run(s.program, env)
	if err != nil {
		return nil, &EvaluationError{Expression: s.expression, Reason: "failed to evaluate", Err: err}
	}
	return out, nil
}

// Expression returns the original expression
func (p *Predicate) Expression() string {
	return p.expression
}

// Match evaluates the predicate against item
func (p *Predicate) Match(item any) (bool, error) {
	env, err := createRuntimeEnvironment(p.helpers, item)
	if err != nil {
		return false, &EvaluationError{Expression: p.expression, Reason: "invalid item", Err: err}
	}

	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, &EvaluationError{Expression: p.expression, Reason: "failed to evaluate", Err: err}
	}
	matched, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{Expression: p.expression, Reason: fmt.Sprintf("expected bool, got %T", out)}
	}
	return matched, nil
}

// Filter keeps the elements of a list payload matching the predicate. A
// non-list payload is matched as a whole and returned unchanged or as nil.
func (p *Predicate) Filter(payload any) (any, error) {
	normalized, err := normalize(payload)
	if err != nil {
		return nil, &EvaluationError{Expression: p.expression, Reason: "invalid payload", Err: err}
	}

	items, ok := normalized.([]any)
	if !ok {
		matched, err := p.Match(normalized)
		if err != nil || !matched {
			return nil, err
		}
		return normalized, nil
	}

	kept := make([]any, 0, len(items))
	for _, item := range items {
		matched, err := p.Match(item)
		if err != nil {
			return nil, err
		}
		if matched {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map. expr
// already ships lower, upper, now and the contains/startsWith/endsWith
// operators.
func addHelperFunctions(env map[string]any) {
	// String helpers
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["iequals"] = strings.EqualFold
	// Path lookup for keys that are not identifiers
	env["dig"] = lookup
	// Date helpers
	env["parseTime"] = func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
}

// createRuntimeEnvironment exposes payload to an expression
func createRuntimeEnvironment(helpers map[string]any, payload any) (map[string]any, error) {
	normalized, err := normalize(payload)
	if err != nil {
		return nil, err
	}

	env := make(map[string]any, len(helpers)+16)
	if obj, ok := normalized.(map[string]any); ok {
		maps.Copy(env, obj)
	}
	maps.Copy(env, helpers)
	env["response"] = normalized
	return env, nil
}

// normalize converts a call result into plain JSON values so expressions
// address fields by their wire names
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, float64, map[string]any, []any:
		return v, nil
	case *request.Response:
		if !json.Valid(t.Body) {
			return string(t.Body), nil
		}
		var out any
		if err := json.Unmarshal(t.Body, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// lookup walks a dot separated path through objects and lists
func lookup(v any, path string) any {
	cur := v
	for part := range strings.SplitSeq(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[part]
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
	}
	return cur
}
