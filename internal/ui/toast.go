package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastWarning
	toastError
)

const (
	toastTTL  = 5 * time.Second
	maxToasts = 3
)

// toast is a transient notification shown in the footer.
type toast struct {
	text    string
	level   toastLevel
	expires time.Time
}

// notify queues a notification, dropping the oldest past maxToasts.
func (m *Model) notify(level toastLevel, text string) {
	m.toasts = append(m.toasts, toast{
		text:    text,
		level:   level,
		expires: time.Now().Add(toastTTL),
	})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

func expireToasts(toasts []toast, now time.Time) []toast {
	kept := toasts[:0]
	for _, t := range toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func (t toast) style(styles Styles) lipgloss.Style {
	switch t.level {
	case toastSuccess:
		return styles.SuccessText
	case toastWarning:
		return styles.WarningText
	case toastError:
		return styles.DangerText
	default:
		return styles.InfoText
	}
}

// renderFooter shows the newest notification, or nothing.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := onBackground(m.theme.Background)
	if len(m.toasts) == 0 {
		return bg.FillLine("", m.width)
	}

	latest := m.toasts[len(m.toasts)-1]
	content := bg.Render("●", latest.style(styles)) + bg.Space() +
		bg.Render(truncate(latest.text, max(m.width-6, 10)), latest.style(styles))
	if extra := len(m.toasts) - 1; extra > 0 {
		content += bg.Spaces(2) + bg.Render(fmt.Sprintf("+%d more", extra), styles.FaintText)
	}
	return bg.FillLine(" "+content, m.width)
}
