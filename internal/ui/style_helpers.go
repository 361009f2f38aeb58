package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bgPainter keeps a background color under text assembled from several
// styled segments. A styled segment resets the background when it ends, so
// any gap left between segments has to be painted explicitly.
type bgPainter struct {
	base lipgloss.Style
}

func onBackground(color string) bgPainter {
	return bgPainter{base: lipgloss.NewStyle().Background(lipgloss.Color(color))}
}

// Render styles each word of text on the background and paints the gaps.
func (b bgPainter) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.base.GetBackground())
	var out strings.Builder
	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			out.WriteString(b.Space())
		}
		if word != "" {
			out.WriteString(style.Render(word))
		}
	}
	return out.String()
}

func (b bgPainter) Space() string { return b.Spaces(1) }

func (b bgPainter) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.base.Render(strings.Repeat(" ", n))
}

// Plain paints s on the background with no foreground styling.
func (b bgPainter) Plain(s string) string {
	return b.base.Render(s)
}

func (b bgPainter) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Plain(sep))
}

// FillLine pads already rendered content out to width.
func (b bgPainter) FillLine(content string, width int) string {
	return b.base.Width(width).Render(content)
}
