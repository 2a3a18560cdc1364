package lang

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/js"
)

// Print renders n as JavaScript source text.
func Print(n Node) string {
	var sb strings.Builder

	printNode(&sb, n)

	return sb.String()
}

func printNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		sb.WriteString("undefined")

	case *Ident:
		sb.WriteString(n.Name)

	case *Literal:
		sb.WriteString(printLiteral(n.Value))

	case *Member:
		printOperand(sb, n.Object)

		if n.Computed {
			sb.WriteByte('[')
			printNode(sb, n.Property)
			sb.WriteByte(']')
		} else {
			sb.WriteByte('.')
			printNode(sb, n.Property)
		}

	case *ObjectExpr:
		if len(n.Entries) == 0 {
			sb.WriteString("{}")

			return
		}

		sb.WriteString("{ ")

		for i, e := range n.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}

			printNode(sb, e)
		}

		sb.WriteString(" }")

	case *Property:
		if n.Method {
			printNode(sb, n.Value)

			return
		}

		if n.Shorthand {
			printNode(sb, n.Key)

			return
		}

		if n.Computed {
			sb.WriteByte('[')
			printNode(sb, n.Key)
			sb.WriteByte(']')
		} else {
			printKey(sb, n.Key)
		}

		sb.WriteString(": ")
		printNode(sb, n.Value)

	case *Spread:
		sb.WriteString("...")
		printOperand(sb, n.Arg)

	case *ArrayExpr:
		sb.WriteByte('[')

		for i, e := range n.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}

			printNode(sb, e)
		}

		sb.WriteByte(']')

	case *Lambda:
		if n.Block || n.Body == nil {
			sb.WriteString(n.Source)

			return
		}

		sb.WriteByte('(')

		for i, p := range n.Params {
			if i > 0 {
				sb.WriteString(", ")
			}

			printNode(sb, p)
		}

		sb.WriteString(") => ")

		if _, ok := n.Body.(*ObjectExpr); ok {
			sb.WriteByte('(')
			printNode(sb, n.Body)
			sb.WriteByte(')')
		} else {
			printNode(sb, n.Body)
		}

	case *Call:
		if _, ok := n.Callee.(*Lambda); ok {
			sb.WriteByte('(')
			printNode(sb, n.Callee)
			sb.WriteByte(')')
		} else {
			printOperand(sb, n.Callee)
		}

		sb.WriteByte('(')

		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			printNode(sb, a)
		}

		sb.WriteByte(')')

	case *Cond:
		printOperand(sb, n.Test)
		sb.WriteString(" ? ")
		printOperand(sb, n.Then)
		sb.WriteString(" : ")
		printOperand(sb, n.Else)

	case *Binary:
		printOperand(sb, n.Left)
		sb.WriteString(" " + n.Op + " ")
		printOperand(sb, n.Right)

	case *Unary:
		sb.WriteString(n.Op)

		if len(n.Op) > 1 {
			sb.WriteByte(' ')
		}

		printOperand(sb, n.Arg)

	case *Expr:
		sb.WriteString(n.Source)

	case *Pattern:
		sb.WriteString(n.Source)
	}
}

// printOperand prints n, parenthesized when it is a compound expression.
func printOperand(sb *strings.Builder, n Node) {
	switch n.(type) {
	case *Cond, *Binary, *Lambda, *Expr, *ObjectExpr:
		sb.WriteByte('(')
		printNode(sb, n)
		sb.WriteByte(')')
	default:
		printNode(sb, n)
	}
}

func printKey(sb *strings.Builder, key Node) {
	if lit, ok := key.(*Literal); ok {
		if s, ok := lit.Value.(string); ok && !isIdentifierName(s) {
			sb.WriteString(strconv.Quote(s))

			return
		}

		sb.WriteString(toString(lit.Value))

		return
	}

	printNode(sb, key)
}

func printLiteral(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case nil:
		return "null"
	}

	return toString(v)
}

func isIdentifierName(s string) bool {
	return js.AsIdentifierName([]byte(s))
}
