package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeongminsang/stylex/lang"
	"github.com/jeongminsang/stylex/pkg"
)

// AST prints the parsed expression tree of every binding in a module.
type AST struct {
	File string `arg:"" help:"Style module to parse or '-' for stdin" name:"file"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	mod, err := parseSource(ctx, a.File)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	if err := newTreePrinter(w).module(mod); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

func parseSource(ctx context.Context, path string) (*lang.Module, error) {
	if path == stdinSource {
		return lang.ParseReader(ctx, stdinName, stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("source", path))
	}
	defer f.Close()

	return lang.ParseReader(ctx, path, f)
}

// treePrinter writes one node per line, children indented below their
// parent.
type treePrinter struct {
	w    io.Writer
	err  error
	kind lipgloss.Style
	pos  lipgloss.Style
}

func newTreePrinter(w io.Writer) *treePrinter {
	r := lipgloss.NewRenderer(w)

	return &treePrinter{
		w:    w,
		kind: r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		pos:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (p *treePrinter) module(mod *lang.Module) error {
	for _, b := range mod.Bindings {
		decl := "const " + b.Name
		if b.Exported {
			decl = "export " + decl
		}

		p.line(0, decl, b.Pos, "")
		p.node(1, "", b.Value)
	}

	return p.err
}

func (p *treePrinter) line(depth int, label string, pos lang.Position, detail string) {
	if p.err != nil {
		return
	}

	s := strings.Repeat("  ", depth) + p.kind.Render(label) + " " + p.pos.Render(pos.String())
	if detail != "" {
		s += " " + detail
	}

	_, p.err = fmt.Fprintln(p.w, s)
}

// node prints n under an optional role label such as "key" or "callee".
func (p *treePrinter) node(depth int, role string, n lang.Node) {
	if n == nil {
		return
	}

	label := n.Kind().String()
	if role != "" {
		label = role + ": " + label
	}

	switch n := n.(type) {
	case *lang.Ident:
		p.line(depth, label, n.Pos(), n.Name)

	case *lang.Literal:
		p.line(depth, label, n.Pos(), lang.Print(n))

	case *lang.Expr:
		p.line(depth, label, n.Pos(), n.Source)

	case *lang.Pattern:
		p.line(depth, label, n.Pos(), n.Form.String()+" "+n.Source)

	case *lang.Member:
		detail := ""
		if n.Computed {
			detail = "computed"
		}

		p.line(depth, label, n.Pos(), detail)
		p.node(depth+1, "object", n.Object)
		p.node(depth+1, "property", n.Property)

	case *lang.ObjectExpr:
		p.line(depth, label, n.Pos(), strconv.Itoa(len(n.Entries))+" entries")

		for _, e := range n.Entries {
			p.node(depth+1, "", e)
		}

	case *lang.Property:
		var flags []string

		for _, f := range []struct {
			set  bool
			name string
		}{{n.Computed, "computed"}, {n.Method, "method"}, {n.Shorthand, "shorthand"}} {
			if f.set {
				flags = append(flags, f.name)
			}
		}

		p.line(depth, label, n.Pos(), strings.Join(flags, " "))
		p.node(depth+1, "key", n.Key)
		p.node(depth+1, "value", n.Value)

	case *lang.Lambda:
		p.line(depth, label, n.Pos(), strconv.Itoa(len(n.Params))+" params")

		for _, param := range n.Params {
			p.node(depth+1, "param", param)
		}

		if n.Block {
			p.line(depth+1, "block body", n.Pos(), n.Source)
		} else {
			p.node(depth+1, "body", n.Body)
		}

	case *lang.Spread:
		p.line(depth, label, n.Pos(), "")
		p.node(depth+1, "", n.Arg)

	case *lang.ArrayExpr:
		p.line(depth, label, n.Pos(), strconv.Itoa(len(n.Elems))+" elements")

		for _, e := range n.Elems {
			p.node(depth+1, "", e)
		}

	case *lang.Call:
		p.line(depth, label, n.Pos(), strconv.Itoa(len(n.Args))+" args")
		p.node(depth+1, "callee", n.Callee)

		for _, a := range n.Args {
			p.node(depth+1, "arg", a)
		}

	case *lang.Cond:
		p.line(depth, label, n.Pos(), "")
		p.node(depth+1, "test", n.Test)
		p.node(depth+1, "then", n.Then)
		p.node(depth+1, "else", n.Else)

	case *lang.Binary:
		p.line(depth, label, n.Pos(), n.Op)
		p.node(depth+1, "left", n.Left)
		p.node(depth+1, "right", n.Right)

	case *lang.Unary:
		p.line(depth, label, n.Pos(), n.Op)
		p.node(depth+1, "", n.Arg)

	default:
		p.line(depth, label, n.Pos(), lang.Print(n))
	}
}
