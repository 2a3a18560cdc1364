package lang

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/sahilm/fuzzy"

	"github.com/jeongminsang/stylex/log"
)

// DefaultMaxDepth bounds nested closure application.
const DefaultMaxDepth = 256

// Result is the outcome of evaluating a node.
//
// A confident result carries the computed Value. A deferred result names the
// node that could not be resolved at compile time and why.
type Result struct {
	Confident bool
	Value     any
	Deopt     Node
	Reason    string
}

// Confident returns a confident result holding v.
func Confident(v any) Result { return Result{Confident: true, Value: v} }

// Deferred returns a result deferred at n.
func Deferred(n Node, reason string) Result {
	return Result{Deopt: n, Reason: reason}
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	if r.Confident {
		return slog.GroupValue(slog.Bool("confident", true))
	}

	attrs := []slog.Attr{
		slog.Bool("confident", false),
		slog.String("reason", r.Reason),
	}

	if r.Deopt != nil {
		attrs = append(attrs,
			slog.String("node", r.Deopt.Kind().String()),
			r.Deopt.Pos().attr())
	}

	return slog.GroupValue(attrs...)
}

// FunctionConfig supplies the callables and values an evaluation may
// reference in addition to constants.
type FunctionConfig struct {
	// Identifiers maps bare names to values, typically [Func].
	Identifiers map[string]any
	// MemberExpressions maps object names to their members, so that
	// `obj.member` resolves without obj being a value itself.
	MemberExpressions map[string]map[string]any
}

// names returns every name the configuration defines.
func (f FunctionConfig) names() []string {
	names := slices.Collect(maps.Keys(f.Identifiers))
	for obj, members := range f.MemberExpressions {
		for m := range members {
			names = append(names, obj+"."+m)
		}
	}

	return names
}

// State is the context shared by evaluations of one source file.
type State struct {
	// Constants are compile-time values visible to every evaluation.
	Constants map[string]any
	// MaxDepth bounds closure application; zero means [DefaultMaxDepth].
	MaxDepth int
	Logger   log.Logger
}

// env is a lexical scope of closure parameters.
type env struct {
	vars   map[string]any
	parent *env
}

func (e *env) lookup(name string) (any, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

func (e *env) names() []string {
	var names []string
	for s := e; s != nil; s = s.parent {
		names = slices.AppendSeq(names, maps.Keys(s.vars))
	}

	return names
}

// Evaluate computes the value of n.
//
// Identifiers resolve against closure parameters, then fns, then the state's
// constants. Anything that cannot be computed yields a deferred result. An
// error is returned only for nodes that can never appear in value position.
func Evaluate(ctx context.Context, n Node, st *State, fns FunctionConfig) (Result, error) {
	if st == nil {
		st = new(State)
	}

	ev := &evaluator{ctx: ctx, st: st, fns: fns}

	return ev.eval(n)
}

type evaluator struct {
	ctx   context.Context
	st    *State
	fns   FunctionConfig
	scope *env
	depth int
}

func (ev *evaluator) maxDepth() int {
	if ev.st.MaxDepth > 0 {
		return ev.st.MaxDepth
	}

	return DefaultMaxDepth
}

func (ev *evaluator) deferf(n Node, format string, args ...any) Result {
	r := Deferred(n, fmt.Sprintf(format, args...))

	ev.st.Logger.TraceContext(ev.ctx, "evaluation deferred", slog.Any("result", r))

	return r
}

func (ev *evaluator) eval(n Node) (Result, error) {
	if err := ev.ctx.Err(); err != nil {
		return Result{}, err
	}

	switch n := n.(type) {
	case *Literal:
		return Confident(n.Value), nil
	case *Ident:
		return ev.ident(n), nil
	case *Member:
		return ev.member(n)
	case *ObjectExpr:
		return ev.object(n)
	case *ArrayExpr:
		return ev.array(n)
	case *Lambda:
		return Confident(&Closure{Lambda: n, env: ev.scope, fns: ev.fns}), nil
	case *Call:
		return ev.call(n)
	case *Cond:
		return ev.cond(n)
	case *Binary:
		return ev.binary(n)
	case *Unary:
		return ev.unary(n)
	case *Expr:
		return ev.expr(n), nil
	case *Property, *Spread, *Pattern:
		return Result{}, n.Errorf(ErrStructural, "%s in value position", n.Kind())
	case nil:
		return Confident(Undefined), nil
	}

	return Result{}, ErrStructural.Wrap(fmt.Errorf("unknown node %T", n))
}

func (ev *evaluator) ident(n *Ident) Result {
	if v, ok := ev.scope.lookup(n.Name); ok {
		return Confident(v)
	}

	if v, ok := ev.fns.Identifiers[n.Name]; ok {
		return Confident(v)
	}

	if v, ok := ev.st.Constants[n.Name]; ok {
		return Confident(v)
	}

	switch n.Name {
	case "undefined":
		return Confident(Undefined)
	case "NaN":
		return Confident(math.NaN())
	case "Infinity":
		return Confident(math.Inf(1))
	}

	return ev.deferf(n, "%s is not defined%s", n.Name, ev.suggest(n.Name))
}

// suggest returns a hint naming the closest known identifier, if any.
func (ev *evaluator) suggest(name string) string {
	known := slices.Concat(
		ev.scope.names(),
		ev.fns.names(),
		slices.Collect(maps.Keys(ev.st.Constants)),
	)

	if matches := fuzzy.Find(name, known); len(matches) > 0 {
		return " (did you mean " + matches[0].Str + "?)"
	}

	return ""
}

func (ev *evaluator) member(n *Member) (Result, error) {
	if obj, ok := n.Object.(*Ident); ok && !n.Computed {
		if _, shadowed := ev.scope.lookup(obj.Name); !shadowed {
			if members, ok := ev.fns.MemberExpressions[obj.Name]; ok {
				prop, _ := n.Property.(*Ident)
				if prop != nil {
					if v, ok := members[prop.Name]; ok {
						return Confident(v), nil
					}
				}
			}
		}
	}

	obj, err := ev.eval(n.Object)
	if err != nil || !obj.Confident {
		return obj, err
	}

	var key any

	if n.Computed {
		k, err := ev.eval(n.Property)
		if err != nil || !k.Confident {
			return k, err
		}

		key = k.Value
	} else if id, ok := n.Property.(*Ident); ok {
		key = id.Name
	}

	v, ok := index(obj.Value, key)
	if !ok {
		return ev.deferf(n, "cannot read property %s", toString(key)), nil
	}

	return Confident(v), nil
}

// index reads a property of an evaluated value.
func index(v, key any) (any, bool) {
	switch v := v.(type) {
	case *Object:
		return v.Get(toString(key))
	case map[string]any:
		e, ok := v[toString(key)]

		return e, ok
	case []any:
		if key == "length" {
			return float64(len(v)), true
		}

		i, ok := arrayIndex(key, len(v))
		if !ok {
			return nil, false
		}

		return v[i], true
	case string:
		units := utf16.Encode([]rune(v))
		if key == "length" {
			return float64(len(units)), true
		}

		i, ok := arrayIndex(key, len(units))
		if !ok {
			return nil, false
		}

		return string(utf16.Decode(units[i : i+1])), true
	}

	return nil, false
}

func arrayIndex(key any, n int) (int, bool) {
	f := toNumber(key)
	if f != math.Trunc(f) || f < 0 || int(f) >= n {
		return 0, false
	}

	return int(f), true
}

func (ev *evaluator) object(n *ObjectExpr) (Result, error) {
	obj := NewObject()

	for _, entry := range n.Entries {
		switch e := entry.(type) {
		case *Spread:
			r, err := ev.eval(e.Arg)
			if err != nil || !r.Confident {
				return r, err
			}

			switch src := r.Value.(type) {
			case *Object:
				obj.Merge(src)
			case nil, undefined:
			default:
				return ev.deferf(e, "cannot spread %s into an object", typeOf(src)), nil
			}

		case *Property:
			if e.Method {
				return ev.deferf(e, "object methods are not supported"), nil
			}

			key, r, err := ev.propertyKey(e)
			if err != nil || r != nil {
				return *r, err
			}

			val, err := ev.eval(e.Value)
			if err != nil || !val.Confident {
				return val, err
			}

			obj.Set(key, val.Value)

		default:
			return Result{}, entry.Errorf(ErrStructural, "%s in object literal", entry.Kind())
		}
	}

	return Confident(obj), nil
}

// propertyKey resolves the key of p. A non-nil result reports why the key
// could not be resolved.
func (ev *evaluator) propertyKey(p *Property) (string, *Result, error) {
	if !p.Computed {
		switch k := p.Key.(type) {
		case *Ident:
			return k.Name, nil, nil
		case *Literal:
			return toString(k.Value), nil, nil
		}
	}

	r, err := ev.eval(p.Key)
	if err != nil {
		return "", &r, err
	}

	if !r.Confident {
		return "", &r, nil
	}

	return toString(r.Value), nil, nil
}

func (ev *evaluator) array(n *ArrayExpr) (Result, error) {
	elems, r, err := ev.list(n.Elems)
	if err != nil || r != nil {
		return *r, err
	}

	return Confident(elems), nil
}

// list evaluates expressions and spread elements into a flat slice.
func (ev *evaluator) list(nodes []Node) ([]any, *Result, error) {
	out := make([]any, 0, len(nodes))

	for _, n := range nodes {
		if s, ok := n.(*Spread); ok {
			r, err := ev.eval(s.Arg)
			if err != nil || !r.Confident {
				return nil, &r, err
			}

			elems, ok := r.Value.([]any)
			if !ok {
				d := ev.deferf(s, "cannot spread %s into a list", typeOf(r.Value))

				return nil, &d, nil
			}

			out = append(out, elems...)

			continue
		}

		r, err := ev.eval(n)
		if err != nil || !r.Confident {
			return nil, &r, err
		}

		out = append(out, r.Value)
	}

	return out, nil, nil
}

func (ev *evaluator) call(n *Call) (Result, error) {
	callee, err := ev.eval(n.Callee)
	if err != nil || !callee.Confident {
		return callee, err
	}

	args, r, err := ev.list(n.Args)
	if err != nil || r != nil {
		return *r, err
	}

	if fn, ok := callee.Value.(func(...any) (any, error)); ok {
		callee.Value = Func(fn)
	}

	switch fn := callee.Value.(type) {
	case Func:
		v, err := fn(args...)
		if err != nil {
			return ev.deferf(n, "%v", err), nil
		}

		return Confident(normalize(v)), nil

	case *Closure:
		return ev.apply(n, fn, args)
	}

	return ev.deferf(n, "%s is not a function", typeOf(callee.Value)), nil
}

// apply binds args to the closure's parameters and evaluates its body in the
// closure's captured scope.
func (ev *evaluator) apply(at Node, c *Closure, args []any) (Result, error) {
	if ev.depth >= ev.maxDepth() {
		return ev.deferf(at, "maximum call depth %d exceeded", ev.maxDepth()), nil
	}

	if c.Lambda.Block {
		return ev.deferf(c.Lambda, "function bodies must be a single expression"), nil
	}

	vars := make(map[string]any, len(c.Lambda.Params))

	for i, p := range c.Lambda.Params {
		id, ok := p.(*Ident)
		if !ok {
			return ev.deferf(p, "unsupported parameter %s", Print(p)), nil
		}

		if i < len(args) {
			vars[id.Name] = args[i]
		} else {
			vars[id.Name] = Undefined
		}
	}

	inner := &evaluator{
		ctx:   ev.ctx,
		st:    ev.st,
		fns:   c.fns,
		scope: &env{vars: vars, parent: c.env},
		depth: ev.depth + 1,
	}

	return inner.eval(c.Lambda.Body)
}

// Apply invokes a callable value produced by an evaluation.
func Apply(ctx context.Context, st *State, fn any, args ...any) (Result, error) {
	if st == nil {
		st = new(State)
	}

	ev := &evaluator{ctx: ctx, st: st}
	at := &Literal{}

	switch fn := fn.(type) {
	case *Closure:
		at.At = fn.Lambda.Pos()

		return ev.apply(at, fn, args)
	case Func:
		v, err := fn(args...)
		if err != nil {
			return Deferred(at, err.Error()), nil
		}

		return Confident(normalize(v)), nil
	}

	return Deferred(at, typeOf(fn)+" is not a function"), nil
}

func (ev *evaluator) cond(n *Cond) (Result, error) {
	test, err := ev.eval(n.Test)
	if err != nil || !test.Confident {
		return test, err
	}

	if truthy(test.Value) {
		return ev.eval(n.Then)
	}

	return ev.eval(n.Else)
}

func (ev *evaluator) unary(n *Unary) (Result, error) {
	arg, err := ev.eval(n.Arg)
	if err != nil || !arg.Confident {
		return arg, err
	}

	switch n.Op {
	case "typeof":
		return Confident(typeOf(arg.Value)), nil
	case "!":
		return Confident(!truthy(arg.Value)), nil
	case "-":
		return Confident(-toNumber(arg.Value)), nil
	case "+":
		return Confident(toNumber(arg.Value)), nil
	case "void":
		return Confident(Undefined), nil
	case "~":
		return Confident(float64(^toInt32(arg.Value))), nil
	}

	return ev.deferf(n, "unsupported operator %s", n.Op), nil
}

func (ev *evaluator) binary(n *Binary) (Result, error) {
	left, err := ev.eval(n.Left)
	if err != nil || !left.Confident {
		return left, err
	}

	// Short-circuit operators evaluate the right operand only when needed.
	switch n.Op {
	case "&&":
		if !truthy(left.Value) {
			return left, nil
		}

		return ev.eval(n.Right)
	case "||":
		if truthy(left.Value) {
			return left, nil
		}

		return ev.eval(n.Right)
	case "??":
		if !IsNullish(left.Value) {
			return left, nil
		}

		return ev.eval(n.Right)
	}

	right, err := ev.eval(n.Right)
	if err != nil || !right.Confident {
		return right, err
	}

	v, ok := binaryOp(n.Op, left.Value, right.Value)
	if !ok {
		return ev.deferf(n, "unsupported operator %s", n.Op), nil
	}

	return Confident(v), nil
}

func binaryOp(op string, a, b any) (any, bool) {
	switch op {
	case "+":
		_, as := a.(string)
		_, bs := b.(string)

		if as || bs {
			return toString(a) + toString(b), true
		}

		return toNumber(a) + toNumber(b), true
	case "-":
		return toNumber(a) - toNumber(b), true
	case "*":
		return toNumber(a) * toNumber(b), true
	case "/":
		return toNumber(a) / toNumber(b), true
	case "%":
		return math.Mod(toNumber(a), toNumber(b)), true
	case "**":
		return math.Pow(toNumber(a), toNumber(b)), true
	case "&", "|", "^", "<<", ">>", ">>>":
		return bitwise(op, toInt32(a), toInt32(b)), true
	case "===":
		return strictEqual(a, b), true
	case "!==":
		return !strictEqual(a, b), true
	case "==":
		return looseEqual(a, b), true
	case "!=":
		return !looseEqual(a, b), true
	case "<", ">", "<=", ">=":
		return compare(op, a, b), true
	}

	return nil, false
}

func bitwise(op string, x, y int32) float64 {
	switch op {
	case "&":
		return float64(x & y)
	case "|":
		return float64(x | y)
	case "^":
		return float64(x ^ y)
	case "<<":
		return float64(x << (uint32(y) & 31))
	case ">>":
		return float64(x >> (uint32(y) & 31))
	}

	return float64(uint32(x) >> (uint32(y) & 31))
}

// toInt32 converts v the way JavaScript bitwise operators do.
func toInt32(v any) int32 {
	f := toNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return int32(uint32(int64(math.Mod(math.Trunc(f), 1<<32))))
}

func compare(op string, a, b any) bool {
	as, aok := a.(string)
	bs, bok := b.(string)

	if aok && bok {
		c := strings.Compare(as, bs)

		switch op {
		case "<":
			return c < 0
		case ">":
			return c > 0
		case "<=":
			return c <= 0
		}

		return c >= 0
	}

	x, y := toNumber(a), toNumber(b)

	switch op {
	case "<":
		return x < y
	case ">":
		return x > y
	case "<=":
		return x <= y
	}

	return x >= y
}

func strictEqual(a, b any) bool {
	switch a := a.(type) {
	case float64:
		f, ok := b.(float64)

		return ok && a == f
	case string, bool, nil, undefined:
		return a == b
	}

	// Reference types compare by identity.
	return fmt.Sprintf("%p", a) == fmt.Sprintf("%p", b)
}

func looseEqual(a, b any) bool {
	if IsNullish(a) || IsNullish(b) {
		return IsNullish(a) && IsNullish(b)
	}

	_, as := a.(string)
	_, bs := b.(string)
	_, af := a.(float64)
	_, bf := b.(float64)

	if as && bf || af && bs {
		return toNumber(a) == toNumber(b)
	}

	return strictEqual(a, b)
}

// typeOf returns the JavaScript typeof name of v.
func typeOf(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	case undefined:
		return "undefined"
	case *Closure, Func, func(...any) (any, error):
		return "function"
	}

	return "object"
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil, undefined:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	}

	return true
}

func toNumber(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}

		return 0
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}

		return f
	}

	return math.NaN()
}

// toString converts v the way string concatenation does.
func toString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			if !IsNullish(e) {
				parts[i] = toString(e)
			}
		}

		return strings.Join(parts, ",")
	case *Object:
		return "[object Object]"
	case fmt.Stringer:
		return v.String()
	}

	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// normalize converts values produced by Go callables to evaluator values:
// numbers become float64 and maps become objects with sorted keys.
func normalize(v any) any {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case map[string]any:
		obj := NewObject()
		for _, k := range slices.Sorted(maps.Keys(v)) {
			obj.Set(k, normalize(v[k]))
		}

		return obj
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}

		return out
	}

	return v
}
