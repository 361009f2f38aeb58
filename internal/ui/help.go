package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpWidth = 46

// renderHelp draws the key map as a centered overlay. Any key closes it.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyCol := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning)).Width(12)

	blocks := make([]string, 0, 8)
	blocks = append(blocks,
		styles.Text.Bold(true).Render("Keyboard Shortcuts")+"\n"+
			styles.FaintText.Render(strings.Repeat("─", helpWidth-10)))

	for _, group := range m.keys.helpGroups() {
		lines := []string{styles.AccentText.Bold(true).Render(group.title)}
		for _, binding := range group.bindings {
			h := binding.Help()
			if h.Key == "" {
				continue
			}
			lines = append(lines, keyCol.Render(h.Key)+styles.Text.Render(h.Desc))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(helpWidth).
		Render(strings.Join(blocks, "\n\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)))
}
