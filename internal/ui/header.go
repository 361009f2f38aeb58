package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const appName = "packetdesk"

// renderHeader renders the status bar: logo, stats counters and the
// signed-in user.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := onBackground(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render(appName, styles.Logo)}

	if m.currentView == ViewLogin || !m.authenticated() {
		parts = append(parts, bg.Render("Not signed in", styles.MutedText))
		return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
	}

	parts = append(parts, m.buildStatsContent(styles, bg))

	left := bg.Join(parts, sep)
	right := m.userLabel(styles, bg)

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return styles.Header.Width(m.width).Render(left)
	}
	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

// buildStatsContent renders the dashboard counters, or the connection state
// while no counts are available.
func (m Model) buildStatsContent(styles Styles, bg bgPainter) string {
	snap := m.snapshot
	sep := bg.Spaces(2)

	if !snap.HasStats {
		if snap.LastError != nil {
			return bg.Render("Stats unavailable", styles.DangerText) + sep +
				bg.Render("Retrying...", styles.WarningText)
		}
		return bg.Render("Loading stats...", styles.WarningText)
	}

	compact := m.width < 110
	type counter struct {
		label, short string
		value        int
		style        lipgloss.Style
	}
	counters := []counter{
		{"Total", "T", snap.Stats.TotalPackets, styles.Text},
		{"Pending", "P", snap.Stats.PendingApproval, styles.WarningText},
		{"Approved", "A", snap.Stats.Approved, styles.SuccessText},
		{"Rejected", "R", snap.Stats.Rejected, styles.DangerText},
		{"Lifted", "L", snap.Stats.Lifted, styles.InfoText},
		{"Hold", "H", snap.Stats.OnHold, styles.AccentText},
	}

	segments := make([]string, 0, len(counters)+1)
	for _, c := range counters {
		label := c.label
		if compact {
			label = c.short
		}
		segments = append(segments,
			bg.Render(label, styles.MutedText)+bg.Space()+bg.Render(fmt.Sprint(c.value), c.style))
	}

	if snap.IsOffline() {
		segments = append(segments, bg.Render("OFFLINE", styles.DangerText))
	} else if !snap.StatsUpdated.IsZero() && !compact {
		segments = append(segments, bg.Render(relativeAge(m.now, snap.StatsUpdated), styles.FaintText))
	}
	return strings.Join(segments, sep)
}

func (m Model) userLabel(styles Styles, bg bgPainter) string {
	if m.session == nil {
		return ""
	}
	user := m.session.User()
	if user == nil {
		return ""
	}
	label := bg.Render(user.Username, styles.AccentText)
	if user.Role != "" {
		label += bg.Space() + bg.Render("("+user.Role+")", styles.FaintText)
	}
	return label
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := onBackground(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogin:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Enter", "Sign in"},
			{"ctrl+c", "Quit"},
		}
	case ViewSubmit:
		if m.submit.editing() {
			commands = []cmd{
				{"Tab", "Next field"},
				{"→", "Complete"},
				{"ctrl+s", "Submit"},
				{"ctrl+x", "Drop image"},
				{"Esc", "Done editing"},
			}
		} else {
			commands = []cmd{
				{"Enter", "Edit"},
				{"ctrl+s", "Submit"},
				{"p", "Packets"},
				{"a", "Activity"},
				{"?", "More"},
			}
		}
	case ViewActivity:
		followLabel := "Pause"
		if !m.activity.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"v", m.activity.minLevel.String()},
			{"j/k", "Scroll"},
			{"p", "Packets"},
			{"n", "New"},
			{"?", "More"},
		}
	default: // ViewPackets
		if m.list.searching {
			commands = []cmd{
				{"Enter", "Apply"},
				{"ctrl+k", "Clear"},
				{"Esc", "Done"},
			}
			break
		}
		commands = []cmd{
			{"/", "Search"},
			{"f", statusLabel(m.list.query)},
			{"D", "Dates"},
			{"H", "History"},
			{"[/]", "Page"},
			{"u", "Update"},
			{"o", "Invoice"},
			{"n", "New"},
			{"a", "Activity"},
			{"?", "More"},
		}
	}

	colon := bg.Plain(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
