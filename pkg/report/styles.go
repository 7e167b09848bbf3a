package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorHeading = lipgloss.Color("#7C3AED") // Purple
)

// styles bundles the renderers used by the text reporter. Without colour
// every style is a no-op.
type styles struct {
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return styles{success: plain, failure: plain, muted: plain, heading: plain}
	}
	return styles{
		success: r.NewStyle().Foreground(ColorSuccess).Bold(true),
		failure: r.NewStyle().Foreground(ColorError).Bold(true),
		muted:   r.NewStyle().Foreground(ColorMuted),
		heading: r.NewStyle().Foreground(ColorHeading).Bold(true),
	}
}
