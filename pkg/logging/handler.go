package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var levelColors = map[slog.Level]lipgloss.Color{
	slog.LevelDebug: lipgloss.Color("#6B7280"), // Gray
	slog.LevelInfo:  lipgloss.Color("#06B6D4"), // Cyan
	slog.LevelWarn:  lipgloss.Color("#F59E0B"), // Amber
	slog.LevelError: lipgloss.Color("#EF4444"), // Red
}

// lineHandler writes one "LEVEL msg key=value ..." line per record.
type lineHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	styles map[slog.Level]lipgloss.Style
	attrs  []slog.Attr
	prefix string // dotted group path
}

func newLineHandler(out io.Writer, level slog.Leveler, color bool) *lineHandler {
	h := &lineHandler{mu: &sync.Mutex{}, out: out, level: level}
	if color {
		r := lipgloss.NewRenderer(out)
		h.styles = make(map[slog.Level]lipgloss.Style, len(levelColors))
		for lv, c := range levelColors {
			h.styles[lv] = r.NewStyle().Foreground(c).Bold(lv >= slog.LevelWarn)
		}
	}
	return h
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) tag(level slog.Level) string {
	tag := fmt.Sprintf("%-5s", level.String())
	if st, ok := h.styles[level]; ok {
		return st.Render(tag)
	}
	return tag
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	if !r.Time.IsZero() {
		sb.WriteString(r.Time.Format("15:04:05.000"))
		sb.WriteByte(' ')
	}
	sb.WriteString(h.tag(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := a.Key
		if prefix != "" {
			p = prefix + "." + a.Key
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, p, ga)
		}
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(sb, " %s=%s", key, val)
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	cp.attrs = append(cp.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + "." + a.Key
		}
		cp.attrs = append(cp.attrs, a)
	}
	return &cp
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := *h
	if cp.prefix != "" {
		cp.prefix += "." + name
	} else {
		cp.prefix = name
	}
	return &cp
}
