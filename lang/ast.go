package lang

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Position identifies a location in source text.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

func (p Position) attr() slog.Attr {
	return slog.Group("pos",
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// Kind discriminates the node variants of an expression tree.
type Kind int

const (
	KindIdent Kind = iota
	KindMember
	KindObject
	KindProperty
	KindLambda
	KindSpread
	KindLiteral
	KindArray
	KindCall
	KindCond
	KindBinary
	KindUnary
	KindExpr
	KindPattern
)

var kindNames = [...]string{
	KindIdent:    "identifier",
	KindMember:   "member access",
	KindObject:   "object literal",
	KindProperty: "property",
	KindLambda:   "arrow function",
	KindSpread:   "spread element",
	KindLiteral:  "literal",
	KindArray:    "array literal",
	KindCall:     "call",
	KindCond:     "conditional",
	KindBinary:   "binary expression",
	KindUnary:    "unary expression",
	KindExpr:     "expression",
	KindPattern:  "pattern",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is one node of an expression tree. The evaluators only depend on this
// interface and the exported variants below, so any front-end able to build
// them can feed the compiler.
type Node interface {
	Kind() Kind
	Pos() Position
	// Errorf returns an error derived from kind, positioned at the node.
	Errorf(kind *Error, format string, args ...any) *Error
}

// Loc is embedded by every node variant to record its source position.
type Loc struct{ At Position }

// Pos returns the position of the node.
func (l Loc) Pos() Position { return l.At }

// Errorf returns an error derived from kind, positioned at the node. An empty
// format adds no cause.
func (l Loc) Errorf(kind *Error, format string, args ...any) *Error {
	err := kind.WithPosition(l.At)
	if format == "" {
		return err
	}

	return err.Wrap(fmt.Errorf(format, args...))
}

type (
	// Ident references a binding by name.
	Ident struct {
		Loc

		Name string
	}

	// Member is a property access. Property is an *Ident unless Computed.
	Member struct {
		Loc

		Object   Node
		Property Node
		Computed bool
	}

	// ObjectExpr is an object literal. Each entry is a *Property or *Spread.
	ObjectExpr struct {
		Loc

		Entries []Node
	}

	// Property is one key/value entry of an object literal.
	//
	// Key is an *Ident or *Literal unless Computed. For method entries Value
	// is the method as a *Lambda.
	Property struct {
		Loc

		Key       Node
		Value     Node
		Computed  bool
		Method    bool
		Shorthand bool
	}

	// Lambda is an arrow function or an object method. Params holds *Ident
	// or *Pattern nodes. Block bodies are kept as source text in Source and
	// Body is nil.
	Lambda struct {
		Loc

		Params []Node
		Body   Node
		Block  bool
		Source string
	}

	// Spread is a spread element inside an object or array literal.
	Spread struct {
		Loc

		Arg Node
	}

	// Literal is a string, float64, bool, or nil (null) constant.
	Literal struct {
		Loc

		Value any
	}

	// ArrayExpr is an array literal.
	ArrayExpr struct {
		Loc

		Elems []Node
	}

	// Call is a call expression.
	Call struct {
		Loc

		Callee Node
		Args   []Node
	}

	// Cond is a conditional (ternary) expression.
	Cond struct {
		Loc

		Test Node
		Then Node
		Else Node
	}

	// Binary is a binary operation.
	Binary struct {
		Loc

		Op    string
		Left  Node
		Right Node
	}

	// Unary is a prefix unary operation such as typeof.
	Unary struct {
		Loc

		Op  string
		Arg Node
	}

	// Expr is an expression outside the structured forms, such as an
	// optional chain, kept as source text and evaluated by the embedded
	// expression language.
	Expr struct {
		Loc

		Source string
	}

	// Pattern is a parameter that is not a plain identifier.
	Pattern struct {
		Loc

		Form   PatternForm
		Source string
	}
)

// PatternForm classifies a non-identifier parameter.
type PatternForm int

const (
	PatternDestructure PatternForm = iota
	PatternRest
	PatternDefault
)

func (f PatternForm) String() string {
	switch f {
	case PatternDestructure:
		return "destructuring"
	case PatternRest:
		return "rest"
	case PatternDefault:
		return "default"
	}

	return "PatternForm(" + strconv.Itoa(int(f)) + ")"
}

func (*Ident) Kind() Kind      { return KindIdent }
func (*Member) Kind() Kind     { return KindMember }
func (*ObjectExpr) Kind() Kind { return KindObject }
func (*Property) Kind() Kind   { return KindProperty }
func (*Lambda) Kind() Kind     { return KindLambda }
func (*Spread) Kind() Kind     { return KindSpread }
func (*Literal) Kind() Kind    { return KindLiteral }
func (*ArrayExpr) Kind() Kind  { return KindArray }
func (*Call) Kind() Kind       { return KindCall }
func (*Cond) Kind() Kind       { return KindCond }
func (*Binary) Kind() Kind     { return KindBinary }
func (*Unary) Kind() Kind      { return KindUnary }
func (*Expr) Kind() Kind       { return KindExpr }
func (*Pattern) Kind() Kind    { return KindPattern }

// Binding is one top-level `const` declaration of a module.
type Binding struct {
	Name     string
	Value    Node
	Exported bool
	Pos      Position
}

// Module is a parsed source file.
type Module struct {
	Name     string
	Bindings []*Binding
}

// Binding returns the binding declared with name.
func (m *Module) Binding(name string) (*Binding, bool) {
	for _, b := range m.Bindings {
		if b.Name == name {
			return b, true
		}
	}

	return nil, false
}

// Names returns the declared binding names in source order.
func (m *Module) Names() []string {
	names := make([]string, len(m.Bindings))
	for i, b := range m.Bindings {
		names[i] = b.Name
	}

	return names
}
