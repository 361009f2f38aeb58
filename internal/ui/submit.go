package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/packetdesk/internal/api"
	"github.com/five82/packetdesk/internal/packets"
)

// Submission form fields in tab order.
const (
	fieldGross = iota
	fieldNet
	fieldBranch
	fieldBank
	fieldLoan
	fieldImage
	fieldCount
)

// noField marks the form as not being edited, so global keys apply.
const noField = -1

var fieldLabels = [fieldCount]string{
	"Gross weight (g)",
	"Net weight (g)",
	"Branch name",
	"Bank name",
	"Loan account no.",
	"Add image",
}

// submitState holds the new-packet form.
type submitState struct {
	draft      packets.Draft
	inputs     []textinput.Model
	focus      int
	spinner    spinner.Model
	submitting bool
	err        string
}

type imageUploadedMsg struct {
	key    string
	upload packets.Upload
	err    error
}

type createdMsg struct {
	packet packets.Packet
	err    error
}

func newSubmitState() submitState {
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldGross] = newInput("0.00", 12, 14)
	inputs[fieldNet] = newInput("0.00", 12, 14)
	inputs[fieldBranch] = newInput("Branch name", 64, 32)
	inputs[fieldBank] = newInput("Bank name", 64, 32)
	inputs[fieldLoan] = newInput("Loan account number", 64, 32)
	inputs[fieldImage] = newInput("/path/to/photo.jpg", 512, 44)

	for _, i := range []int{fieldBranch, fieldBank} {
		inputs[i].ShowSuggestions = true
		inputs[i].KeyMap.AcceptSuggestion.SetEnabled(false)
	}
	inputs[fieldBranch].SetSuggestions(packets.Branches)
	inputs[fieldBank].SetSuggestions(packets.Banks)

	return submitState{
		inputs:  inputs,
		focus:   noField,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s submitState) editing() bool {
	return s.focus != noField
}

func (s *submitState) focusField(idx int) {
	if idx == fieldImage && !s.draft.CanAddImage() {
		idx = fieldLoan
	}
	s.focus = idx
	focusOnly(s.inputs, idx)
}

func (s *submitState) blur() {
	s.focus = noField
	focusOnly(s.inputs, noField)
}

// step moves focus by delta, skipping the image field when it is hidden.
func (s *submitState) step(delta int) {
	next := s.focus
	for {
		next = (next + delta + fieldCount) % fieldCount
		if next != fieldImage || s.draft.CanAddImage() {
			break
		}
	}
	s.focusField(next)
}

// syncDraft copies the text fields into the draft.
func (s *submitState) syncDraft() {
	s.draft.GrossWeight = s.inputs[fieldGross].Value()
	s.draft.NetWeight = s.inputs[fieldNet].Value()
	s.draft.BranchName = s.inputs[fieldBranch].Value()
	s.draft.BankName = s.inputs[fieldBank].Value()
	s.draft.LoanAccountNumber = s.inputs[fieldLoan].Value()
}

func (s *submitState) reset() {
	s.draft.Reset()
	for i := range s.inputs {
		s.inputs[i].SetValue("")
	}
	s.err = ""
	s.submitting = false
}

// handleSubmitKey processes keyboard input for the submission form.
func (m Model) handleSubmitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.submit

	switch {
	case key.Matches(msg, m.keys.SubmitForm):
		cmd := m.submitPacket()
		return m, cmd

	case key.Matches(msg, m.keys.RemoveImage):
		if n := len(s.draft.Images); n > 0 {
			last := s.draft.Images[n-1]
			s.draft.RemoveImage(last.Key)
			m.notify(toastInfo, "Removed "+last.Name)
		}
		return m, nil
	}

	if !s.editing() {
		switch {
		case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Tab):
			s.focusField(fieldGross)
		case key.Matches(msg, m.keys.ShiftTab):
			s.focusField(fieldImage)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		s.blur()
		return m, nil

	case key.Matches(msg, m.keys.Tab), msg.String() == "down":
		s.step(1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab), msg.String() == "up":
		s.step(-1)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		s.inputs[s.focus].SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if s.focus == fieldImage {
			cmd := m.addImage()
			return m, cmd
		}
		s.step(1)
		return m, nil

	case key.Matches(msg, m.keys.Complete) && (s.focus == fieldBranch || s.focus == fieldBank):
		in := &s.inputs[s.focus]
		if in.Position() == len([]rune(in.Value())) {
			options := packets.Branches
			if s.focus == fieldBank {
				options = packets.Banks
			}
			if suggestion := suggestFor(in.Value(), options); suggestion != "" {
				in.SetValue(suggestion)
				in.CursorEnd()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	s.err = ""
	return m, cmd
}

// addImage registers the typed path as a tile and starts its upload.
func (m *Model) addImage() tea.Cmd {
	s := &m.submit
	wasIdle := s.draft.PendingUploads() == 0

	slot, err := s.draft.AddImage(s.inputs[fieldImage].Value())
	if err != nil {
		s.err = errorText(err)
		m.notify(toastWarning, s.err)
		return nil
	}
	s.inputs[fieldImage].SetValue("")
	s.err = ""
	if !s.draft.CanAddImage() {
		s.focusField(fieldLoan)
	}

	cmds := []tea.Cmd{m.uploadImage(slot)}
	if wasIdle {
		cmds = append(cmds, s.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) uploadImage(slot packets.ImageSlot) tea.Cmd {
	if m.packets == nil {
		return nil
	}
	svc, ctx := m.packets, m.ctx
	return func() tea.Msg {
		upload, err := svc.Upload(ctx, slot.Path)
		return imageUploadedMsg{key: slot.Key, upload: upload, err: err}
	}
}

func (m Model) handleImageUploaded(msg imageUploadedMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.handleUnauthorized()
	}

	if msg.err != nil {
		name := ""
		for _, img := range m.submit.draft.Images {
			if img.Key == msg.key {
				name = img.Name
			}
		}
		if m.submit.draft.RemoveImage(msg.key) {
			m.log.Warn().Err(msg.err).Str("file", name).Msg("image upload failed")
			m.notify(toastError, fmt.Sprintf("Failed to upload %s: %s", name, errorText(msg.err)))
		}
		return m, nil
	}

	if m.submit.draft.ResolveImage(msg.key, msg.upload.ID) {
		m.log.Debug().Str("upload", msg.upload.ID).Msg("image uploaded")
	}
	return m, nil
}

// submitPacket validates the draft and creates the packet.
func (m *Model) submitPacket() tea.Cmd {
	s := &m.submit
	if s.submitting {
		return nil
	}
	s.syncDraft()
	req, err := s.draft.Request()
	if err != nil {
		s.err = errorText(err)
		m.notify(toastWarning, s.err)
		return nil
	}
	if m.packets == nil {
		return nil
	}

	s.submitting = true
	s.err = ""
	svc, ctx := m.packets, m.ctx
	return func() tea.Msg {
		packet, err := svc.Create(ctx, req)
		return createdMsg{packet: packet, err: err}
	}
}

func (m Model) handleCreated(msg createdMsg) (tea.Model, tea.Cmd) {
	m.submit.submitting = false
	if api.IsUnauthorized(msg.err) {
		return m.handleUnauthorized()
	}
	if msg.err != nil {
		m.submit.err = errorText(msg.err)
		m.notify(toastError, "Failed to submit packet: "+m.submit.err)
		return m, nil
	}

	m.submit.reset()
	m.submit.focusField(fieldGross)
	m.notify(toastSuccess, "Packet submitted successfully")
	m.refreshStats()
	cmd := m.fetchList()
	return m, cmd
}

// updateSpinner advances the tile spinner while any upload is pending.
// Ticks stop once nothing is uploading.
func (m *Model) updateSpinner(msg tea.Msg) (tea.Cmd, bool) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil, false
	}
	if m.submit.draft.PendingUploads() == 0 {
		return nil, true
	}
	var cmd tea.Cmd
	m.submit.spinner, cmd = m.submit.spinner.Update(tick)
	return cmd, true
}

// renderSubmit renders the submission form and image tiles.
func (m Model) renderSubmit() string {
	styles := m.theme.Styles()
	s := m.submit
	width := min(m.width, 90)

	var b strings.Builder
	for i := 0; i < fieldImage; i++ {
		b.WriteString(" ")
		b.WriteString(fieldLabel(styles, padRight(fieldLabels[i], 18), s.focus == i))
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(" ")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("Images %d/%d", len(s.draft.Images), packets.MaxImages)))
	b.WriteString("\n")
	for _, img := range s.draft.Images {
		b.WriteString("   ")
		if img.Uploaded() {
			b.WriteString(styles.SuccessText.Render("✓"))
		} else {
			b.WriteString(styles.WarningText.Render(s.spinner.View()))
		}
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(truncateMiddle(img.Name, 40)))
		b.WriteString(" ")
		b.WriteString(styles.FaintText.Render(img.MIME))
		b.WriteString("\n")
	}
	if s.draft.CanAddImage() {
		b.WriteString(" ")
		b.WriteString(fieldLabel(styles, padRight(fieldLabels[fieldImage], 18), s.focus == fieldImage))
		b.WriteString(s.inputs[fieldImage].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.submitting:
		b.WriteString(" " + styles.WarningText.Render("Submitting..."))
	case s.err != "":
		b.WriteString(" " + styles.DangerText.Render(s.err))
	case s.draft.PendingUploads() > 0:
		b.WriteString(" " + styles.WarningText.Render(fmt.Sprintf("Uploading %d image(s)...", s.draft.PendingUploads())))
	default:
		b.WriteString(" " + styles.FaintText.Render("ctrl+s to submit"))
	}

	box := m.renderTitledBox("New Packet", b.String(), width, m.contentHeight(), s.editing())
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}
