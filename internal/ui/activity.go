package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/packetdesk/internal/logtail"
)

const (
	activityRefreshInterval = 2 * time.Second
	activityLines           = 500
)

var activityLevels = []zerolog.Level{
	zerolog.DebugLevel,
	zerolog.InfoLevel,
	zerolog.WarnLevel,
	zerolog.ErrorLevel,
}

// activityState holds the log tail shown in the activity view.
type activityState struct {
	viewport    viewport.Model
	entries     []logtail.Entry
	follow      bool
	minLevel    zerolog.Level
	err         error
	lastRefresh time.Time
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

func newActivityState() activityState {
	return activityState{
		viewport: viewport.New(80, 20),
		follow:   true,
		minLevel: zerolog.InfoLevel,
	}
}

func nextLevel(current zerolog.Level) zerolog.Level {
	for i, lvl := range activityLevels {
		if lvl == current {
			return activityLevels[(i+1)%len(activityLevels)]
		}
	}
	return zerolog.InfoLevel
}

// refreshActivity reads the log tail. Unless forced, reads are spaced by
// activityRefreshInterval.
func (m *Model) refreshActivity(force bool) tea.Cmd {
	path := m.config.LogFile
	if path == "" {
		return nil
	}
	if !force && time.Since(m.activity.lastRefresh) < activityRefreshInterval {
		return nil
	}
	m.activity.lastRefresh = time.Now()
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, activityLines)
		return activityMsg{entries: entries, err: err}
	}
}

func (m *Model) handleActivity(msg activityMsg) {
	m.activity.err = msg.err
	if msg.err == nil {
		m.activity.entries = msg.entries
	}
	m.updateActivityViewport()
}

func (m *Model) resizeActivity() {
	m.activity.viewport.Width = max(m.width-4, 10)
	m.activity.viewport.Height = max(m.contentHeight()-3, 1)
	m.updateActivityViewport()
}

// updateActivityViewport re-renders the filtered entries into the viewport.
func (m *Model) updateActivityViewport() {
	m.activity.viewport.SetContent(m.renderActivityLines())
	if m.activity.follow {
		m.activity.viewport.GotoBottom()
	}
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vp := &m.activity.viewport

	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.activity.follow = !m.activity.follow
		if m.activity.follow {
			vp.GotoBottom()
			cmd := m.refreshActivity(true)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		m.activity.minLevel = nextLevel(m.activity.minLevel)
		m.updateActivityViewport()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refreshActivity(true)
		return m, cmd

	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
		m.activity.follow = false

	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
		m.activity.follow = true

	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
		m.activity.follow = false

	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
		m.activity.follow = false

	case key.Matches(msg, m.keys.PageDown):
		vp.HalfPageDown()
		m.activity.follow = false

	case key.Matches(msg, m.keys.PageUp):
		vp.HalfPageUp()
		m.activity.follow = false
	}
	return m, nil
}

// renderActivity renders the log box with a status line under it.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	bg := onBackground(m.theme.Background)
	height := m.contentHeight()

	title := "Activity · " + truncateMiddle(m.config.LogFile, 50)
	box := m.renderTitledBox(title, m.activity.viewport.View(), m.width, height-1, true)

	var status string
	switch {
	case m.activity.err != nil:
		status = bg.Render("Cannot read log: "+m.activity.err.Error(), styles.DangerText)
	default:
		mode := "following"
		if !m.activity.follow {
			mode = "paused"
		}
		shown := len(logtail.FilterLevel(m.activity.entries, m.activity.minLevel))
		status = bg.Render(mode, styles.AccentText) + bg.Spaces(2) +
			bg.Render("level ≥ "+m.activity.minLevel.String(), styles.MutedText) + bg.Spaces(2) +
			bg.Render(pluralLines(shown), styles.FaintText)
	}
	return box + "\n" + bg.FillLine(" "+status, m.width)
}

func pluralLines(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

// renderActivityLines formats entries as time, level, message and fields.
func (m Model) renderActivityLines() string {
	styles := m.theme.Styles()
	entries := logtail.FilterLevel(m.activity.entries, m.activity.minLevel)
	if len(entries) == 0 {
		return styles.MutedText.Render("No activity yet")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Structured() {
			lines = append(lines, styles.FaintText.Render(e.Raw))
			continue
		}
		var b strings.Builder
		ts := "--:--:--"
		if !e.Time.IsZero() {
			ts = e.Time.Local().Format("15:04:05")
		}
		b.WriteString(styles.FaintText.Render(ts))
		b.WriteString(" ")
		b.WriteString(levelStyle(e.Level, styles).Render(padRight(strings.ToUpper(levelTag(e.Level)), 5)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(e.Message))
		for _, f := range e.Fields {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(f.Key + "="))
			b.WriteString(styles.InfoText.Render(f.Value))
		}
		lines = append(lines, b.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func levelTag(level string) string {
	switch strings.ToLower(level) {
	case "warn", "warning":
		return "warn"
	case "":
		return "-"
	}
	return level
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn", "warning":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}
