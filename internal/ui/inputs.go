package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
)

// newInput builds a text input with a static cursor. Blinking would need a
// tick message per input, which the modal routing does not forward.
func newInput(placeholder string, limit, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = width
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// focusOnly focuses inputs[idx] and blurs the rest.
func focusOnly(inputs []textinput.Model, idx int) {
	for i := range inputs {
		if i == idx {
			inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
}

// suggestFor returns the first option that extends value, matching
// case-insensitively, or "" when none does.
func suggestFor(value string, options []string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	lower := strings.ToLower(value)
	for _, opt := range options {
		if len(opt) > len(value) && strings.HasPrefix(strings.ToLower(opt), lower) {
			return opt
		}
	}
	return ""
}
