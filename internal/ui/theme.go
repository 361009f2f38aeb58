package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/five82/packetdesk/internal/packets"
)

// Theme is the resolved color set used by every view.
type Theme struct {
	Name string

	Background string
	Surface    string // header, command bar
	SurfaceAlt string // detail pane, unfocused boxes
	FocusBg    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderMuted string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors is keyed by approval status and lifted status value.
	StatusColors map[string]string
}

// palette is the compact form a theme is declared in. Border and status
// colors are derived from the semantic colors.
type palette struct {
	name                               string
	bg, surface, surfaceAlt, focus     string
	selBg, selFg                       string
	border                             string
	fg, muted, faint                   string
	accent, ok, warn, bad, info, extra string
}

func (p palette) theme() Theme {
	return Theme{
		Name:          p.name,
		Background:    p.bg,
		Surface:       p.surface,
		SurfaceAlt:    p.surfaceAlt,
		FocusBg:       p.focus,
		SelectionBg:   p.selBg,
		SelectionText: p.selFg,
		Border:        p.border,
		BorderMuted:   p.surfaceAlt,
		BorderFocus:   p.accent,
		Text:          p.fg,
		Muted:         p.muted,
		Faint:         p.faint,
		Accent:        p.accent,
		Success:       p.ok,
		Warning:       p.warn,
		Danger:        p.bad,
		Info:          p.info,
		StatusColors: map[string]string{
			string(packets.StatusPending):  p.warn,
			string(packets.StatusApproved): p.ok,
			string(packets.StatusRejected): p.bad,
			string(packets.Lifted):         p.info,
			string(packets.LiftedHold):     p.extra,
		},
	}
}

var palettes = []palette{
	{
		// https://github.com/EdenEast/nightfox.nvim
		name: "Nightfox",
		bg:   "#131a24", surface: "#192330", surfaceAlt: "#212e3f", focus: "#29394f",
		selBg: "#2b3b51", selFg: "#cdcecf",
		border: "#39506d",
		fg:     "#cdcecf", muted: "#738091", faint: "#71839b",
		accent: "#719cd6", ok: "#81b29a", warn: "#dbc074", bad: "#c94f6d", info: "#63cdcf", extra: "#f4a261",
	},
	{
		// Warm browns with a gold accent.
		name: "Bullion",
		bg:   "#17130d", surface: "#211a11", surfaceAlt: "#2b2217", focus: "#362b1d",
		selBg: "#5a4520", selFg: "#f5ead2",
		border: "#5c4a30",
		fg:     "#ece3cf", muted: "#a8977a", faint: "#7d6f58",
		accent: "#e0b44c", ok: "#9cbf6b", warn: "#f0c75e", bad: "#d9614c", info: "#7fb7be", extra: "#e88f3c",
	},
	{
		// https://tailwindcss.com/docs/colors (slate, sky)
		name: "Slate",
		bg:   "#020617", surface: "#0f172a", surfaceAlt: "#1e293b", focus: "#283548",
		selBg: "#0284c7", selFg: "#f8fafc",
		border: "#334155",
		fg:     "#f1f5f9", muted: "#94a3b8", faint: "#64748b",
		accent: "#38bdf8", ok: "#16a34a", warn: "#f59e0b", bad: "#dc2626", info: "#0ea5e9", extra: "#ea580c",
	},
}

var themes = func() map[string]Theme {
	out := make(map[string]Theme, len(palettes))
	for _, p := range palettes {
		out[p.name] = p.theme()
	}
	return out
}()

// GetTheme looks a theme up by name. Unknown names get the first theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return palettes[0].theme()
}

// NextTheme is the theme after current in the cycle order.
func NextTheme(current string) string {
	names := ThemeNames()
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// ThemeNames lists themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.name
	}
	return names
}

// Styles holds the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	theme Theme
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Header:      fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:        fg(t.Accent).Bold(true),
		Selected:    fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),
		theme:       t,
	}
}

// StatusStyle is the badge style for an approval or lifted status value.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color, ok := s.theme.StatusColors[status]
	if !ok {
		color = s.theme.Muted
	}
	return fg(s.theme.Background).Background(lipgloss.Color(color)).Padding(0, 1)
}

// WithBackground puts every text style on bgColor so segments inside a
// colored bar keep the bar's background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Logo,
	} {
		*st = st.Background(bg)
	}
	return s
}
