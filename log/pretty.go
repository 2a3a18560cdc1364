package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleString  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNumber  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTrue    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleTime    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleMessage = lipgloss.NewStyle().Bold(true)

	styleLevel = map[slog.Level]lipgloss.Style{
		slog.Level(LevelTrace): lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		slog.LevelDebug:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		slog.LevelInfo:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelWarn:         lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		slog.LevelError:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// prettyHandler writes colorized key=value lines.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(styleTime.Render(ts))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(levelLabel(r.Level))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteString(styleKey.Render(fmt.Sprintf("%s:%d", src.File, src.Line)))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(styleMessage.Render(r.Message))

	prefix := strings.Join(h.groups, ".")

	for _, a := range h.attrs {
		h.writeAttr(buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Concat(h.attrs, h.qualify(attrs))

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

// qualify prefixes attrs with the handler's open groups.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}

	prefix := strings.Join(h.groups, ".")
	out := make([]slog.Attr, len(attrs))

	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + "." + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, key, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(styleKey.Render(key + "="))
	buf.WriteString(renderValue(a.Value))
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return styleString.Render(v.String())
	case slog.KindInt64:
		return styleNumber.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return styleNumber.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return styleNumber.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return styleTrue.Render("true")
		}

		return styleFalse.Render("false")
	case slog.KindDuration:
		return styleNumber.Render(v.Duration().String())
	case slog.KindTime:
		return styleTime.Render(v.Time().String())
	default:
		return styleString.Render(v.String())
	}
}

func levelLabel(level slog.Level) string {
	label := strings.ToUpper(Level(level).String())

	style, ok := styleLevel[level]
	if !ok {
		return label
	}

	return style.Render(fmt.Sprintf("%-5s", label))
}
