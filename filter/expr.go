// Package filter narrows fetched catalog pages with expr-lang expressions.
//
// Expressions see the item's fields under their API names plus a set of helpers:
//
//	episode_id >= 4 and icontains(director, "lucas")
//	hasPrefix(title, "the") or title contains "Hope"
//	gender == "female" and height > 160
//	len(characters) > 15 or year < 1985
package filter

import (
	"fmt"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/holonet/catalog"
)

// DefaultCacheSize is the number of compiled programs kept by NewCompiler
const DefaultCacheSize = 100

// Filter is a compiled expression over items of type T
type Filter[T any] struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
	env        func(T) map[string]any
	name       func(T) string
}

// Expression returns the source of the filter
func (f *Filter[T]) Expression() string {
	return f.expression
}

// Match evaluates the filter against a single item
func (f *Filter[T]) Match(item T) (bool, error) {
	env := f.env(item)
	maps.Copy(env, f.helpers)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Item: f.name(item), Err: err}
	}

	// guaranteed by expr.AsBool
	return result.(bool), nil
}

// Apply returns the items matching the filter, preserving their order
func (f *Filter[T]) Apply(items []T) ([]T, error) {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the number of compiled programs to keep. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache[*vm.Program](size)
		} else {
			c.cache = nil
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// Compiler compiles filter expressions, caching the resulting programs
type Compiler struct {
	helpers map[string]any
	cache   *lruCache[*vm.Program]
}

// NewCompiler creates a compiler with the default helper functions
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helpers: createHelperFunctions(),
		cache:   newLRUCache[*vm.Program](DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CompileFilm compiles an expression evaluated against films
func (c *Compiler) CompileFilm(expression string) (*Filter[catalog.Film], error) {
	return compile(c, "film", expression, filmEnv, func(f catalog.Film) string { return f.Title })
}

// CompileCharacter compiles an expression evaluated against characters
func (c *Compiler) CompileCharacter(expression string) (*Filter[catalog.Character], error) {
	return compile(c, "character", expression, characterEnv, func(ch catalog.Character) string { return ch.Name })
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
		return c.cache.Size()
	}
	return 0
}

func compile[T any](c *Compiler, kind, expression string, env func(T) map[string]any, name func(T) string) (*Filter[T], error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	f := &Filter[T]{
		expression: expression,
		helpers:    c.helpers,
		env:        env,
		name:       name,
	}

	key := kind + ":" + expression
	if c.cache != nil {
		if program, ok := c.cache.Get(key); ok {
			f.program = program
			return f, nil
		}
	}

	// A zero item fixes the types of the fields for the checker
	var zero T
	typed := env(zero)
	maps.Copy(typed, c.helpers)

	program, err := expr.Compile(expression, expr.Env(typed), expr.AsBool())
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     fmt.Sprintf("invalid %s filter", kind),
			Err:        err,
		}
	}

	if c.cache != nil {
		c.cache.Put(key, program)
	}

	f.program = program
	return f, nil
}
