package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeongminsang/stylex/lang"
)

// Diagnose writes err to w for a human reader. Errors located in a source
// file are followed by the offending line and a caret under the column.
func Diagnose(w io.Writer, err error) {
	r := lipgloss.NewRenderer(w)

	label := r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	arrow := r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	gutter := r.NewStyle().Foreground(lipgloss.Color("8"))
	caret := r.NewStyle().Foreground(lipgloss.Color("1"))

	fmt.Fprintln(w, label.Render("error:"), err)

	var le *lang.Error
	if !errors.As(err, &le) {
		return
	}

	pos, ok := le.Position()
	if !ok {
		return
	}

	source := attr(le.LogValue(), "source")
	if source == "" {
		return
	}

	fmt.Fprintln(w, arrow.Render("  -->"), source+":"+pos.String())

	text, ok := sourceLine(source, pos.Line)
	if !ok {
		return
	}

	num := strconv.Itoa(pos.Line)
	pad := strings.Repeat(" ", len(num))

	fmt.Fprintln(w, gutter.Render(pad+" |"))
	fmt.Fprintln(w, gutter.Render(num+" |"), text)
	fmt.Fprintln(w, gutter.Render(pad+" |"),
		strings.Repeat(" ", max(pos.Column-1, 0))+caret.Render("^"))
}

// attr returns the string value of the first attribute named key in v.
func attr(v slog.Value, key string) string {
	if v.Kind() != slog.KindGroup {
		return ""
	}

	for _, a := range v.Group() {
		if a.Key == key {
			return a.Value.String()
		}
	}

	return ""
}

func sourceLine(path string, line int) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	lines := strings.Split(string(data), "\n")
	if line < 1 || line > len(lines) {
		return "", false
	}

	return strings.TrimRight(lines[line-1], "\r"), true
}
