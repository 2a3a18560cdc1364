package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/builtin"
	exprparser "github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"
)

// programs caches compiled expressions keyed by source text and the shape of
// the environment they were compiled against.
var programs sync.Map

// ClearCache removes all cached programs.
func ClearCache() { programs = sync.Map{} }

// expr evaluates a scalar expression kept as source text.
func (ev *evaluator) expr(n *Expr) Result {
	src, err := translate(n.Source)
	if err != nil {
		return ev.deferf(n, "%v", err)
	}

	vars := ev.exprEnv()

	if name, ok := unresolved(src, vars); ok {
		return ev.deferf(n, "%s is not defined%s", name, ev.suggest(name))
	}

	program, err := compile(src, vars)
	if err != nil {
		return ev.deferf(n, "%v", err)
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return ev.deferf(n, "%v", err)
	}

	ev.st.Logger.TraceContext(ev.ctx, "expression evaluated",
		slog.String("source", n.Source),
		slog.String("expr", src))

	return Confident(normalize(out))
}

// exprEnv builds the environment visible to an expression. Inner scopes
// shadow outer ones and parameters shadow configured names and constants.
func (ev *evaluator) exprEnv() map[string]any {
	vars := map[string]any{
		"null":      nil,
		"undefined": nil,
	}

	for k, v := range ev.st.Constants {
		vars[k] = ev.toExpr(v)
	}

	for obj, members := range ev.fns.MemberExpressions {
		m := make(map[string]any, len(members))
		for k, v := range members {
			m[k] = ev.toExpr(v)
		}

		vars[obj] = m
	}

	for k, v := range ev.fns.Identifiers {
		vars[k] = ev.toExpr(v)
	}

	var scopes []*env
	for s := ev.scope; s != nil; s = s.parent {
		scopes = append(scopes, s)
	}

	for _, s := range slices.Backward(scopes) {
		for k, v := range s.vars {
			vars[k] = ev.toExpr(v)
		}
	}

	return vars
}

// toExpr converts an evaluator value to one the expression VM can operate on.
func (ev *evaluator) toExpr(v any) any {
	switch v := v.(type) {
	case *Object:
		m := make(map[string]any, v.Len())
		for k, e := range v.All() {
			m[k] = ev.toExpr(e)
		}

		return m
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ev.toExpr(e)
		}

		return out
	case undefined:
		return nil
	case *Closure:
		return ev.callable(v)
	}

	return v
}

// callable adapts a closure to a function the expression VM can call.
func (ev *evaluator) callable(c *Closure) Func {
	return func(args ...any) (any, error) {
		for i, a := range args {
			args[i] = normalize(a)
		}

		r, err := ev.apply(c.Lambda, c, args)
		if err != nil {
			return nil, err
		}

		if !r.Confident {
			return nil, errors.New(r.Reason)
		}

		return ev.toExpr(r.Value), nil
	}
}

// compile returns the cached program for src or compiles and caches it.
func compile(src string, env map[string]any) (*vm.Program, error) {
	key := programKey(src, env)

	if p, ok := programs.Load(key); ok {
		if program, ok := p.(*vm.Program); ok {
			return program, nil
		}
	}

	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, err
	}

	programs.Store(key, program)

	return program, nil
}

// programKey identifies a program by its source and the names and dynamic
// types of its environment.
func programKey(src string, env map[string]any) uint64 {
	var sb strings.Builder

	sb.WriteString(src)

	for _, k := range slices.Sorted(maps.Keys(env)) {
		fmt.Fprintf(&sb, "\x00%s:%T", k, env[k])
	}

	return xxh3.HashString(sb.String())
}

// identCollector gathers identifier references and let-declared names.
type identCollector struct {
	refs     []string
	declared map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.refs = append(c.refs, n.Value)
	case *ast.VariableDeclaratorNode:
		c.declared[n.Name] = true
	}
}

// unresolved returns the first identifier src references that is neither in
// env, declared by the expression itself, nor a builtin.
func unresolved(src string, env map[string]any) (string, bool) {
	tree, err := exprparser.Parse(src)
	if err != nil {
		return "", false
	}

	c := &identCollector{declared: make(map[string]bool)}
	ast.Walk(&tree.Node, c)

	for _, name := range c.refs {
		if _, ok := env[name]; ok || c.declared[name] {
			continue
		}

		if _, ok := builtin.Index[name]; ok {
			continue
		}

		return name, true
	}

	return "", false
}

// translate rewrites JavaScript expression syntax the expression language
// spells differently: strict equality operators and template literals.
func translate(src string) (string, error) {
	var sb strings.Builder

	for i := 0; i < len(src); {
		switch ch := src[i]; {
		case ch == '"' || ch == '\'':
			end, err := stringEnd(src, i)
			if err != nil {
				return "", err
			}

			sb.WriteString(src[i:end])
			i = end

		case ch == '`':
			s, end, err := translateTemplate(src, i)
			if err != nil {
				return "", err
			}

			sb.WriteString(s)
			i = end

		case strings.HasPrefix(src[i:], "==="):
			sb.WriteString("==")
			i += 3

		case strings.HasPrefix(src[i:], "!=="):
			sb.WriteString("!=")
			i += 3

		default:
			sb.WriteByte(ch)
			i++
		}
	}

	return sb.String(), nil
}

// stringEnd returns the offset just past the quoted string starting at i.
func stringEnd(src string, i int) (int, error) {
	quote := src[i]

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1, nil
		}
	}

	return 0, fmt.Errorf("unterminated string at offset %d", i)
}

// translateTemplate converts the template literal starting at i into string
// concatenation and returns the offset just past it.
func translateTemplate(src string, i int) (string, int, error) {
	var (
		parts []string
		text  strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, strconv.Quote(text.String()))
			text.Reset()
		}
	}

	for j := i + 1; j < len(src); j++ {
		switch {
		case src[j] == '\\' && j+1 < len(src):
			j++
			text.WriteByte(src[j])

		case src[j] == '`':
			flush()

			switch len(parts) {
			case 0:
				return `""`, j + 1, nil
			case 1:
				return parts[0], j + 1, nil
			}

			return "(" + strings.Join(parts, " + ") + ")", j + 1, nil

		case strings.HasPrefix(src[j:], "${"):
			flush()

			end, err := braceEnd(src, j+1)
			if err != nil {
				return "", 0, err
			}

			inner, err := translate(src[j+2 : end])
			if err != nil {
				return "", 0, err
			}

			parts = append(parts, "string("+inner+")")
			j = end

		default:
			text.WriteByte(src[j])
		}
	}

	return "", 0, fmt.Errorf("unterminated template literal at offset %d", i)
}

// braceEnd returns the offset of the brace closing the one at i.
func braceEnd(src string, i int) (int, error) {
	depth := 0

	for j := i; j < len(src); j++ {
		switch src[j] {
		case '"', '\'':
			end, err := stringEnd(src, j)
			if err != nil {
				return 0, err
			}

			j = end - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}

	return 0, fmt.Errorf("unbalanced brace at offset %d", i)
}
