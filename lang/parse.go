package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/jeongminsang/stylex/log"
)

// ParseReader parses a module from an io.Reader.
func ParseReader(ctx context.Context, name string, r io.Reader) (*Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", name))
	}

	return Parse(ctx, name, string(data))
}

// Parse parses a JavaScript module and collects its top-level bindings.
//
// Every `const`, `let` or `var` declarator with an identifier target and an
// initializer becomes a [Binding], exported when declared through `export`.
// Imports and all other statements are skipped.
func Parse(ctx context.Context, name, src string) (*Module, error) {
	b := newBuilder(src, "", "")

	tree, err := js.Parse(b.input(), js.Options{})
	if err != nil {
		return nil, b.syntaxError(err).With(slog.String("source", name))
	}

	mod := &Module{Name: name}

	for _, stmt := range tree.List {
		switch s := stmt.(type) {
		case *js.VarDecl:
			err = b.declare(mod, s, false)
		case *js.ExportStmt:
			if d, ok := s.Decl.(*js.VarDecl); ok {
				err = b.declare(mod, d, true)
			}
		}

		if err != nil {
			return nil, WrapError(err).With(slog.String("source", name))
		}
	}

	log.TraceContext(ctx, "parse complete",
		slog.String("source", name),
		slog.Int("bindings", len(mod.Bindings)))

	return mod, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (Node, error) {
	b := newBuilder(src, "(", "\n)")

	tree, err := js.Parse(b.input(), js.Options{})
	if err != nil {
		return nil, b.syntaxError(err)
	}

	if len(tree.List) == 1 {
		if s, ok := tree.List[0].(*js.ExprStmt); ok {
			if g, ok := s.Value.(*js.GroupExpr); ok {
				b.seek("(")

				return b.expr(g.X)
			}
		}
	}

	return nil, ErrParse.WithPosition(b.pos(b.base)).Wrap(errors.New("expected a single expression"))
}

// token is a lexeme other than whitespace or a comment.
type token struct {
	off  int
	text string
}

// builder converts a js syntax tree to nodes. The tree carries no positions,
// so they are recovered from the token stream of the same text: literal data
// and declared names alias the input buffer and locate themselves exactly,
// everything else is matched against the tokens that follow the cursor.
type builder struct {
	src    string
	base   int
	buf    []byte
	lines  []int
	tokens []token
	next   int
}

// newBuilder prepares src for parsing, surrounded by prefix and suffix.
// Positions are reported relative to src.
func newBuilder(src, prefix, suffix string) *builder {
	text := prefix + src + suffix

	// The spare byte lets the parser terminate the input in place, so the
	// data slices of the tree point into buf.
	buf := make([]byte, len(text), len(text)+1)
	copy(buf, text)

	b := &builder{src: src, base: len(prefix), buf: buf, lines: []int{0}}

	for i := range len(src) {
		if src[i] == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}

	b.tokens = tokenize(text)

	return b
}

func (b *builder) input() *parse.Input { return parse.NewInputBytes(b.buf) }

func tokenize(text string) []token {
	var (
		tokens []token
		off    int
		prev   = js.ErrorToken
	)

	l := js.NewLexer(parse.NewInputString(text))

	for {
		start := off

		tt, data := l.Next()
		if (tt == js.DivToken || tt == js.DivEqToken) && regexpAllowed(prev) {
			tt, data = l.RegExp()
		}

		if tt == js.ErrorToken {
			return tokens
		}

		off = start + len(data)

		switch tt {
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		}

		tokens = append(tokens, token{off: start, text: string(data)})
		prev = tt
	}
}

// regexpAllowed reports whether a slash following prev starts a regular
// expression rather than a division.
func regexpAllowed(prev js.TokenType) bool {
	switch prev {
	case js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken:
		return false
	case js.ErrorToken:
		return true
	}

	return js.IsOperator(prev) || js.IsPunctuator(prev)
}

// pos converts an offset of the parsed text to a position in src.
func (b *builder) pos(off int) Position {
	o := min(max(off-b.base, 0), len(b.src))
	line := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > o })

	return Position{
		Offset: o,
		Line:   line,
		Column: utf8.RuneCountInString(b.src[b.lines[line-1]:o]) + 1,
	}
}

// at converts a line and rune column of the parsed text to a position.
func (b *builder) at(line, col int) Position {
	if line == 1 {
		col -= b.base
	}

	line = min(max(line, 1), len(b.lines))
	o := b.lines[line-1]

	for n := 1; n < col && o < len(b.src) && b.src[o] != '\n'; n++ {
		_, size := utf8.DecodeRuneInString(b.src[o:])
		o += size
	}

	return Position{Offset: o, Line: line, Column: max(col, 1)}
}

// here returns the position of the token at the cursor.
func (b *builder) here() Position {
	if b.next < len(b.tokens) {
		return b.pos(b.tokens[b.next].off)
	}

	return b.pos(len(b.buf))
}

// offset returns the offset of the token at the cursor.
func (b *builder) offset() int {
	if b.next < len(b.tokens) {
		return b.tokens[b.next].off
	}

	return len(b.buf)
}

func (b *builder) peek() string {
	if b.next < len(b.tokens) {
		return b.tokens[b.next].text
	}

	return ""
}

// find moves the cursor to the next token spelled text without consuming it.
func (b *builder) find(text string) bool {
	for i := b.next; i < len(b.tokens); i++ {
		if b.tokens[i].text == text {
			b.next = i

			return true
		}
	}

	return false
}

// seek consumes the next token spelled text and returns its position. When
// there is none the cursor stays put.
func (b *builder) seek(text string) Position {
	if !b.find(text) {
		return b.here()
	}

	b.next++

	return b.pos(b.tokens[b.next-1].off)
}

// anchor locates data within the input buffer and moves the cursor past the
// token containing it.
func (b *builder) anchor(data []byte) (Position, bool) {
	if len(data) == 0 {
		return Position{}, false
	}

	off := cap(b.buf) - cap(data)
	if off < 0 || off >= len(b.buf) || &b.buf[off] != &data[0] {
		return Position{}, false
	}

	i := sort.Search(len(b.tokens), func(i int) bool {
		return b.tokens[i].off+len(b.tokens[i].text) > off
	})
	if i == len(b.tokens) {
		return b.pos(off), true
	}

	b.next = i + 1

	return b.pos(b.tokens[i].off), true
}

// locate positions a leaf spelled data, preferring its exact location.
func (b *builder) locate(data []byte) Position {
	if p, ok := b.anchor(data); ok {
		return p
	}

	return b.seek(string(data))
}

// skipGroup consumes the bracketed group opening at the cursor and returns
// the offset just past it.
func (b *builder) skipGroup() int {
	depth := 0

	for b.next < len(b.tokens) {
		t := b.tokens[b.next]
		b.next++

		switch t.text {
		case "{", "[", "(":
			depth++
		case "}", "]", ")":
			if depth--; depth <= 0 {
				return t.off + len(t.text)
			}
		}
	}

	return len(b.buf)
}

// openerOf returns the index of the token opening the group closed at i.
func (b *builder) openerOf(i int) int {
	depth := 0

	for j := i; j >= 0; j-- {
		switch b.tokens[j].text {
		case ")", "]", "}":
			depth++
		case "(", "[", "{":
			if depth--; depth == 0 {
				return j
			}
		}
	}

	return i
}

// skipParam consumes one parameter up to the next separator at the same
// depth and returns its extent.
func (b *builder) skipParam() (start, end int) {
	if b.peek() == "," {
		b.next++
	}

	start = b.offset()
	end = start
	depth := 0

	for ; b.next < len(b.tokens); b.next++ {
		t := b.tokens[b.next]

		switch t.text {
		case "{", "[", "(":
			depth++
		case "}", "]", ")":
			if depth == 0 {
				return start, end
			}

			depth--
		case ",", "=>":
			if depth == 0 {
				return start, end
			}
		}

		end = t.off + len(t.text)
	}

	return start, end
}

func (b *builder) text(start, end int) string {
	return string(b.buf[start:end])
}

func (b *builder) syntaxError(err error) *Error {
	var perr *parse.Error
	if errors.As(err, &perr) {
		return ErrParse.WithPosition(b.at(perr.Line, perr.Column)).Wrap(errors.New(perr.Message))
	}

	return ErrParse.Wrap(err)
}

// declare adds the bindings of d to mod.
func (b *builder) declare(mod *Module, d *js.VarDecl, exported bool) error {
	for _, elem := range d.List {
		v, ok := elem.Binding.(*js.Var)
		if !ok || elem.Default == nil {
			continue
		}

		at := b.locate(v.Data)

		// A declaration starts at its keyword, or at export before it.
		if i := b.next - 2; i >= 0 && isDeclaration(b.tokens[i].text) {
			at = b.pos(b.tokens[i].off)

			if exported && i > 0 && b.tokens[i-1].text == "export" {
				at = b.pos(b.tokens[i-1].off)
			}
		}

		value, err := b.expr(elem.Default)
		if err != nil {
			return err
		}

		mod.Bindings = append(mod.Bindings, &Binding{
			Name:     string(v.Name()),
			Value:    value,
			Exported: exported,
			Pos:      at,
		})
	}

	return nil
}

func isDeclaration(kw string) bool {
	return kw == "const" || kw == "let" || kw == "var"
}

func (b *builder) expr(e js.IExpr) (Node, error) {
	switch e := e.(type) {
	case nil:
		return nil, nil

	case *js.Var:
		name := string(e.Name())

		return &Ident{Loc: Loc{b.seek(name)}, Name: name}, nil

	case *js.LiteralExpr:
		return b.literal(*e), nil

	case js.LiteralExpr:
		return b.literal(e), nil

	case *js.GroupExpr:
		b.seek("(")

		return b.expr(e.X)

	case *js.ArrayExpr:
		return b.array(e)

	case *js.ObjectExpr:
		return b.object(e)

	case *js.TemplateExpr:
		if e.Tag != nil || e.Optional {
			return b.opaque(e), nil
		}

		return b.template(e)

	case *js.DotExpr:
		if e.Optional {
			return b.opaque(e), nil
		}

		return b.dot(e)

	case *js.IndexExpr:
		if e.Optional {
			return b.opaque(e), nil
		}

		obj, err := b.expr(e.X)
		if err != nil {
			return nil, err
		}

		at := b.seek("[")

		prop, err := b.expr(e.Y)
		if err != nil {
			return nil, err
		}

		return &Member{Loc: Loc{at}, Object: obj, Property: prop, Computed: true}, nil

	case *js.CallExpr:
		if e.Optional {
			return b.opaque(e), nil
		}

		callee, err := b.expr(e.X)
		if err != nil {
			return nil, err
		}

		at := b.seek("(")

		args, err := b.args(e.Args)
		if err != nil {
			return nil, err
		}

		return &Call{Loc: Loc{at}, Callee: callee, Args: args}, nil

	case *js.UnaryExpr:
		return b.unary(e)

	case *js.BinaryExpr:
		left, err := b.expr(e.X)
		if err != nil {
			return nil, err
		}

		b.seek(e.Op.String())

		right, err := b.expr(e.Y)
		if err != nil {
			return nil, err
		}

		return &Binary{Loc: Loc{left.Pos()}, Op: e.Op.String(), Left: left, Right: right}, nil

	case *js.CondExpr:
		test, err := b.expr(e.Cond)
		if err != nil {
			return nil, err
		}

		b.seek("?")

		then, err := b.expr(e.X)
		if err != nil {
			return nil, err
		}

		b.seek(":")

		els, err := b.expr(e.Y)
		if err != nil {
			return nil, err
		}

		return &Cond{Loc: Loc{test.Pos()}, Test: test, Then: then, Else: els}, nil

	case *js.ArrowFunc:
		if e.Async {
			return b.opaque(e), nil
		}

		return b.arrow(e)
	}

	return b.opaque(e), nil
}

// opaque keeps an expression outside the structured subset as source text.
func (b *builder) opaque(e js.IExpr) Node {
	var sb strings.Builder

	e.JS(&sb)

	return &Expr{Loc: Loc{b.here()}, Source: sb.String()}
}

func (b *builder) literal(l js.LiteralExpr) Node {
	at := b.locate(l.Data)
	lit := &Literal{Loc: Loc{at}}

	switch l.TokenType {
	case js.TrueToken:
		lit.Value = true
	case js.FalseToken:
		lit.Value = false
	case js.NullToken:
	case js.StringToken:
		lit.Value = unquote(string(l.Data[1 : len(l.Data)-1]))
	case js.IdentifierToken:
		lit.Value = string(l.Data)
	case js.DecimalToken, js.IntegerToken, js.HexadecimalToken, js.OctalToken, js.BinaryToken:
		lit.Value = number(l.TokenType, string(l.Data))
	case js.ThisToken:
		return &Ident{Loc: Loc{at}, Name: "this"}
	default:
		return &Expr{Loc: Loc{at}, Source: string(l.Data)}
	}

	return lit
}

func number(tt js.TokenType, s string) float64 {
	s = strings.TrimSuffix(strings.ReplaceAll(s, "_", ""), "n")

	if tt == js.DecimalToken || tt == js.IntegerToken && !strings.HasPrefix(s, "0") || s == "0" {
		f, _ := strconv.ParseFloat(s, 64)

		return f
	}

	u, _ := strconv.ParseUint(s, 0, 64)

	return float64(u)
}

// unquote decodes the escape sequences of a string or template literal body.
func unquote(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])

			continue
		}

		i++

		switch c := s[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x', 'u':
			n := 2
			if c == 'u' {
				n = 4
			}

			if c == 'u' && i+1 < len(s) && s[i+1] == '{' {
				if end := strings.IndexByte(s[i:], '}'); end > 0 && writeCodePoint(&sb, s[i+2:i+end], end-2) > 0 {
					i += end

					continue
				}
			}

			if w := writeCodePoint(&sb, s[i+1:], n); w > 0 {
				i += w
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// writeCodePoint writes the code point spelled by the first n hex digits of
// s and returns the number of bytes used.
func writeCodePoint(sb *strings.Builder, s string, n int) int {
	if n == 0 || len(s) < n {
		return 0
	}

	r, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return 0
	}

	sb.WriteRune(rune(r))

	return n
}

func (b *builder) array(e *js.ArrayExpr) (Node, error) {
	arr := &ArrayExpr{Loc: Loc{b.seek("[")}}

	for _, el := range e.List {
		if el.Value == nil {
			arr.Elems = append(arr.Elems, &Ident{Loc: Loc{b.here()}, Name: "undefined"})

			continue
		}

		var at Position
		if el.Spread {
			at = b.seek("...")
		}

		n, err := b.expr(el.Value)
		if err != nil {
			return nil, err
		}

		if el.Spread {
			n = &Spread{Loc: Loc{at}, Arg: n}
		}

		arr.Elems = append(arr.Elems, n)
	}

	return arr, nil
}

func (b *builder) args(a js.Args) ([]Node, error) {
	out := make([]Node, 0, len(a.List))

	for _, arg := range a.List {
		var at Position
		if arg.Rest {
			at = b.seek("...")
		}

		n, err := b.expr(arg.Value)
		if err != nil {
			return nil, err
		}

		if arg.Rest {
			n = &Spread{Loc: Loc{at}, Arg: n}
		}

		out = append(out, n)
	}

	return out, nil
}

func (b *builder) object(e *js.ObjectExpr) (Node, error) {
	obj := &ObjectExpr{Loc: Loc{b.seek("{")}}

	for _, p := range e.List {
		if p.Spread {
			at := b.seek("...")

			arg, err := b.expr(p.Value)
			if err != nil {
				return nil, err
			}

			obj.Entries = append(obj.Entries, &Spread{Loc: Loc{at}, Arg: arg})

			continue
		}

		if m, ok := p.Value.(*js.MethodDecl); ok {
			obj.Entries = append(obj.Entries, b.method(m))

			continue
		}

		prop, err := b.property(p)
		if err != nil {
			return nil, err
		}

		obj.Entries = append(obj.Entries, prop)
	}

	return obj, nil
}

func (b *builder) key(name *js.PropertyName) (Node, bool, error) {
	if name.IsComputed() {
		b.seek("[")

		k, err := b.expr(name.Computed)

		return k, true, err
	}

	at := b.locate(name.Literal.Data)

	switch name.Literal.TokenType {
	case js.StringToken:
		return &Literal{Loc: Loc{at}, Value: unquote(string(name.Literal.Data[1 : len(name.Literal.Data)-1]))}, false, nil
	case js.DecimalToken, js.IntegerToken, js.HexadecimalToken, js.OctalToken, js.BinaryToken:
		return &Literal{Loc: Loc{at}, Value: number(name.Literal.TokenType, string(name.Literal.Data))}, false, nil
	}

	return &Ident{Loc: Loc{at}, Name: string(name.Literal.Data)}, false, nil
}

func (b *builder) property(p js.Property) (Node, error) {
	key, computed, err := b.key(p.Name)
	if err != nil {
		return nil, err
	}

	prop := &Property{Loc: Loc{key.Pos()}, Key: key, Computed: computed}

	if p.Init != nil {
		return nil, ErrParse.WithPosition(key.Pos()).
			Wrap(errors.New("invalid shorthand property initializer"))
	}

	if v, ok := p.Value.(*js.Var); ok && !computed && b.peek() != ":" {
		prop.Shorthand = true
		prop.Value = &Ident{Loc: Loc{key.Pos()}, Name: string(v.Name())}

		return prop, nil
	}

	b.seek(":")

	if prop.Value, err = b.expr(p.Value); err != nil {
		return nil, err
	}

	return prop, nil
}

// method converts an object method to a property holding a block lambda.
func (b *builder) method(m *js.MethodDecl) Node {
	key, computed, _ := b.key(&m.Name.PropertyName)
	start := key.Pos().Offset + b.base

	fn := &Lambda{Loc: Loc{b.pos(start)}, Block: true}

	if b.find("(") {
		b.skipGroup()
	}

	if b.find("{") {
		fn.Source = b.text(start, b.skipGroup())
	}

	return &Property{Loc: Loc{key.Pos()}, Key: key, Value: fn, Computed: computed, Method: true}
}

func (b *builder) template(e *js.TemplateExpr) (Node, error) {
	var out Node

	part := func(data []byte) {
		at, ok := b.anchor(data)
		if !ok {
			at = b.here()
		}

		raw := string(data)
		raw = strings.TrimSuffix(strings.TrimSuffix(raw[1:], "${"), "`")

		out = concat(out, &Literal{Loc: Loc{at}, Value: unquote(raw)})
	}

	for _, p := range e.List {
		part(p.Value)

		x, err := b.expr(p.Expr)
		if err != nil {
			return nil, err
		}

		out = concat(out, x)
	}

	part(e.Tail)

	return out, nil
}

func concat(left, right Node) Node {
	if left == nil {
		return right
	}

	if lit, ok := right.(*Literal); ok && lit.Value == "" {
		return left
	}

	return &Binary{Loc: Loc{left.Pos()}, Op: "+", Left: left, Right: right}
}

func (b *builder) dot(e *js.DotExpr) (Node, error) {
	obj, err := b.expr(e.X)
	if err != nil {
		return nil, err
	}

	at := b.seek(".")

	lit, ok := e.Y.(js.LiteralExpr)
	if !ok {
		return nil, ErrParse.WithPosition(at).Wrap(fmt.Errorf("unsupported member %s", e.Y))
	}

	prop := &Ident{Loc: Loc{b.locate(lit.Data)}, Name: string(lit.Data)}

	return &Member{Loc: Loc{at}, Object: obj, Property: prop}, nil
}

func (b *builder) unary(e *js.UnaryExpr) (Node, error) {
	op := e.Op.String()

	if e.Op == js.PostIncrToken || e.Op == js.PostDecrToken {
		arg, err := b.expr(e.X)
		if err != nil {
			return nil, err
		}

		b.seek(op)

		return &Unary{Loc: Loc{arg.Pos()}, Op: op, Arg: arg}, nil
	}

	at := b.seek(op)

	arg, err := b.expr(e.X)
	if err != nil {
		return nil, err
	}

	if lit, ok := arg.(*Literal); ok && e.Op == js.NegToken {
		if f, ok := lit.Value.(float64); ok {
			return &Literal{Loc: Loc{at}, Value: -f}, nil
		}
	}

	return &Unary{Loc: Loc{at}, Op: op, Arg: arg}, nil
}

func (b *builder) arrow(e *js.ArrowFunc) (Node, error) {
	if !b.find("=>") {
		return b.opaque(e), nil
	}

	// The head ends right before the arrow: a parenthesized list or a
	// single identifier.
	head := max(b.next-1, 0)
	if b.tokens[head].text == ")" {
		head = b.openerOf(head)
	}

	start := b.tokens[head].off
	fn := &Lambda{Loc: Loc{b.pos(start)}}

	b.next = head
	if b.peek() == "(" {
		b.next++
	}

	for _, p := range e.Params.List {
		fn.Params = append(fn.Params, b.param(p))
	}

	if e.Params.Rest != nil {
		s, end := b.skipParam()
		fn.Params = append(fn.Params, &Pattern{Loc: Loc{b.pos(s)}, Form: PatternRest, Source: b.text(s, end)})
	}

	b.seek("=>")

	if b.peek() == "{" {
		fn.Block = true
		fn.Source = b.text(start, b.skipGroup())

		return fn, nil
	}

	if len(e.Body.List) == 1 {
		if ret, ok := e.Body.List[0].(*js.ReturnStmt); ok {
			body, err := b.expr(ret.Value)
			if err != nil {
				return nil, err
			}

			fn.Body = body

			return fn, nil
		}
	}

	return nil, ErrParse.WithPosition(fn.Pos()).Wrap(errors.New("malformed arrow function body"))
}

func (b *builder) param(p js.BindingElement) Node {
	v, ok := p.Binding.(*js.Var)
	if ok && p.Default == nil {
		return &Ident{Loc: Loc{b.locate(v.Data)}, Name: string(v.Name())}
	}

	form := PatternDestructure
	if ok {
		form = PatternDefault
	}

	start, end := b.skipParam()

	return &Pattern{Loc: Loc{b.pos(start)}, Form: form, Source: b.text(start, end)}
}
