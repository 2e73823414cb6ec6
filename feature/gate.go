package feature

import (
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"

	"github.com/wippyai/interop/errors"
	"github.com/wippyai/interop/tagspace"
)

// Guard is a compiled guard expression.
type Guard struct {
	prog *vm.Program
	src  string
	refs []Flag
}

// Source returns the expression text.
func (g *Guard) Source() string {
	return g.src
}

// Requires returns the flags the expression references, sorted.
func (g *Guard) Requires() []Flag {
	return append([]Flag(nil), g.refs...)
}

// Eval evaluates the guard under s. An empty guard always holds.
func (g *Guard) Eval(s Set) (bool, error) {
	if g.prog == nil {
		return true, nil
	}
	env := make(map[string]any, len(g.refs))
	for _, f := range g.refs {
		env[string(f)] = s.Has(f)
	}
	out, err := expr.Run(g.prog, env)
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Missing returns the referenced flags that s does not enable.
func (g *Guard) Missing(s Set) []Flag {
	var out []Flag
	for _, f := range g.refs {
		if !s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Gate evaluates declaration guards against a configuration. Compiled
// guards are cached by source text.
type Gate struct {
	env   map[string]any
	cache sync.Map // guard source -> *Guard
}

// NewGate returns a gate that accepts guards over the declared features.
func NewGate(declared []tagspace.Feature) *Gate {
	env := make(map[string]any, len(declared))
	for _, f := range declared {
		env[f.Name] = false
	}
	return &Gate{env: env}
}

// Compile compiles a guard expression. Referencing an undeclared flag or
// producing a non-boolean result is an error.
func (g *Gate) Compile(src string) (*Guard, error) {
	if cached, ok := g.cache.Load(src); ok {
		return cached.(*Guard), nil
	}
	if src == "" {
		guard := &Guard{}
		g.cache.Store(src, guard)
		return guard, nil
	}

	prog, err := expr.Compile(src, expr.Env(g.env), expr.AsBool())
	if err != nil {
		return nil, err
	}

	collector := &identCollector{known: g.env, seen: make(map[Flag]struct{})}
	node := prog.Node()
	ast.Walk(&node, collector)
	refs := make([]Flag, 0, len(collector.seen))
	for f := range collector.seen {
		refs = append(refs, f)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })

	guard := &Guard{prog: prog, src: src, refs: refs}
	actual, _ := g.cache.LoadOrStore(src, guard)
	return actual.(*Guard), nil
}

// Allows reports whether the declaration is active under s.
func (g *Gate) Allows(d tagspace.Decl, s Set) (bool, error) {
	guard, err := g.Compile(d.Guard)
	if err != nil {
		return false, errors.InvalidGuard(d.Name, d.Guard, err)
	}
	ok, err := guard.Eval(s)
	if err != nil {
		return false, errors.InvalidGuard(d.Name, d.Guard, err)
	}
	return ok, nil
}

// Missing returns the flags a declaration references that s lacks.
func (g *Gate) Missing(d tagspace.Decl, s Set) []Flag {
	guard, err := g.Compile(d.Guard)
	if err != nil {
		return nil
	}
	return guard.Missing(s)
}

type identCollector struct {
	known map[string]any
	seen  map[Flag]struct{}
}

func (c *identCollector) Visit(node *ast.Node) {
	if id, ok := (*node).(*ast.IdentifierNode); ok {
		if _, declared := c.known[id.Value]; declared {
			c.seen[Flag(id.Value)] = struct{}{}
		}
	}
}
