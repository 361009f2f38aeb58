package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/packetdesk/internal/packets"
)

// editConfirmedMsg asks the model to commit an edit for a packet.
type editConfirmedMsg struct {
	packet packets.Packet
	edit   packets.Edit
}

// updateModal edits the lifted status and invoice of an approved packet.
type updateModal struct {
	packet      packets.Packet
	edit        packets.Edit
	fileInput   textinput.Model
	fileFocused bool
	err         string
}

func newUpdateModal(p packets.Packet) updateModal {
	return updateModal{
		packet:    p,
		edit:      packets.EditFor(p),
		fileInput: newInput("/path/to/invoice.pdf", 512, 40),
	}
}

// nextLifted cycles Not set -> Lifted -> On Hold -> Lifted. Once a packet
// has a lifted status it cannot go back to unset.
func nextLifted(current packets.LiftedStatus) packets.LiftedStatus {
	if current == packets.Lifted {
		return packets.LiftedHold
	}
	return packets.Lifted
}

func (m updateModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		if m.fileFocused {
			m.fileFocused = false
			m.fileInput.Blur()
			return m, nil, false
		}
		return m, nil, true

	case key.Matches(keyMsg, keys.Confirm):
		m.edit.InvoiceFile = strings.TrimSpace(m.fileInput.Value())
		if !m.edit.Invoice {
			m.edit.InvoiceFile = ""
		}
		if err := packets.ValidateEdit(m.packet, m.edit); err != nil {
			m.err = validationText(err)
			return m, nil, false
		}
		confirmed := editConfirmedMsg{packet: m.packet, edit: m.edit}
		return m, func() tea.Msg { return confirmed }, true

	case key.Matches(keyMsg, keys.Tab), key.Matches(keyMsg, keys.ShiftTab):
		if !m.edit.Invoice {
			return m, nil, false
		}
		m.fileFocused = !m.fileFocused
		if m.fileFocused {
			m.fileInput.Focus()
		} else {
			m.fileInput.Blur()
		}
		return m, nil, false

	case key.Matches(keyMsg, keys.Clear):
		m.fileInput.SetValue("")
		return m, nil, false
	}

	if m.fileFocused {
		var cmd tea.Cmd
		m.fileInput, cmd = m.fileInput.Update(keyMsg)
		return m, cmd, false
	}

	switch {
	case key.Matches(keyMsg, keys.CycleLifted), keyMsg.String() == "left", keyMsg.String() == "right":
		m.edit.Lifted = nextLifted(m.edit.Lifted)
		m.err = ""
	case key.Matches(keyMsg, keys.ToggleInvoice), keyMsg.String() == " ":
		m.edit.Invoice = !m.edit.Invoice
		m.err = ""
		if !m.edit.Invoice {
			m.fileFocused = false
			m.fileInput.Blur()
		}
	}
	return m, nil, false
}

func (m updateModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Loan account "))
	b.WriteString(styles.Text.Render(m.packet.LoanAccountNumber))
	b.WriteString("\n\n")

	lifted := m.edit.Lifted.Label()
	liftedStyle := styles.Text
	if m.edit.Lifted != packets.LiftedNone {
		liftedStyle = styles.StatusStyle(string(m.edit.Lifted))
	}
	b.WriteString(fieldLabel(styles, "Lifted status: ", !m.fileFocused))
	b.WriteString(liftedStyle.Render(lifted))
	b.WriteString(styles.FaintText.Render("   l to change"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel(styles, "Invoice:       ", !m.fileFocused))
	b.WriteString(styles.Text.Render(yesNo(m.edit.Invoice)))
	b.WriteString(styles.FaintText.Render("   i to toggle"))
	b.WriteString("\n\n")

	if m.edit.Invoice {
		label := "Invoice file:  "
		if m.packet.InvoiceStatus {
			label = "Replace file:  "
		}
		b.WriteString(fieldLabel(styles, label, m.fileFocused))
		b.WriteString(m.fileInput.View())
		b.WriteString("\n")
		if m.edit.NeedsInvoiceFile(m.packet) {
			b.WriteString(styles.WarningText.Render("An invoice file is required."))
		} else if m.packet.InvoiceStatus {
			b.WriteString(styles.FaintText.Render("Leave blank to keep the current invoice."))
		}
		b.WriteString("\n\n")
	}

	if m.err != "" {
		b.WriteString(styles.DangerText.Render(m.err))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: File  •  Esc: Cancel"))

	return renderModal(theme, "Update Packet", b.String(), 60, width, height)
}

// validationText renders a validation error for inline display.
func validationText(err error) string {
	var v *packets.ValidationError
	if errors.As(err, &v) {
		if v.Title == "" {
			return v.Message
		}
		return fmt.Sprintf("%s: %s", v.Title, v.Message)
	}
	return err.Error()
}
