package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const dateLayout = "2006-01-02"

// dateRangeMsg carries a confirmed created-at range. Zero bounds are open.
type dateRangeMsg struct {
	from time.Time
	to   time.Time
}

// dateRangeModal edits the list's created-at range.
type dateRangeModal struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newDateRangeModal(from, to time.Time) dateRangeModal {
	fromInput := newInput("YYYY-MM-DD", 10, 12)
	toInput := newInput("YYYY-MM-DD", 10, 12)
	if !from.IsZero() {
		fromInput.SetValue(from.Local().Format(dateLayout))
	}
	if !to.IsZero() {
		toInput.SetValue(to.Local().Format(dateLayout))
	}
	m := dateRangeModal{inputs: []textinput.Model{fromInput, toInput}}
	focusOnly(m.inputs, 0)
	return m
}

func (m dateRangeModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return m, nil, true

	case key.Matches(keyMsg, keys.Confirm):
		from, to, err := parseDateRange(m.inputs[0].Value(), m.inputs[1].Value())
		if err != nil {
			m.err = err.Error()
			return m, nil, false
		}
		return m, func() tea.Msg { return dateRangeMsg{from: from, to: to} }, true

	case key.Matches(keyMsg, keys.Tab), key.Matches(keyMsg, keys.Down):
		m.focus = (m.focus + 1) % len(m.inputs)
		focusOnly(m.inputs, m.focus)
		return m, nil, false

	case key.Matches(keyMsg, keys.ShiftTab), key.Matches(keyMsg, keys.Up):
		m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
		focusOnly(m.inputs, m.focus)
		return m, nil, false

	case key.Matches(keyMsg, keys.Clear):
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.err = ""
		return m, nil, false
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(keyMsg)
	return m, cmd, false
}

func (m dateRangeModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Only packets created in this range are listed."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Leave a field blank to leave that end open."))
	b.WriteString("\n\n")
	b.WriteString(fieldLabel(styles, "From: ", m.focus == 0))
	b.WriteString(m.inputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(fieldLabel(styles, "To:   ", m.focus == 1))
	b.WriteString(m.inputs[1].View())
	b.WriteString("\n\n")
	if m.err != "" {
		b.WriteString(styles.DangerText.Render(m.err))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel  •  Ctrl+K: Clear"))

	return renderModal(theme, "Date Range", b.String(), 50, width, height)
}

// parseDateRange reads two local calendar dates. The end date covers the
// whole day.
func parseDateRange(fromText, toText string) (time.Time, time.Time, error) {
	var from, to time.Time
	if s := strings.TrimSpace(fromText); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start date must look like 2024-03-01")
		}
		from = t
	}
	if s := strings.TrimSpace(toText); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end date must look like 2024-03-31")
		}
		to = t.Add(24*time.Hour - time.Second)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date is before start date")
	}
	return from, to, nil
}
