package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Logout     key.Binding

	// View switching
	ViewPackets  key.Binding
	ViewSubmit   key.Binding
	ViewActivity key.Binding

	// Packet list
	Search        key.Binding
	CycleStatus   key.Binding
	SaveStatus    key.Binding
	DateRange     key.Binding
	ToggleHistory key.Binding
	PrevPage      key.Binding
	NextPage      key.Binding
	FirstPage     key.Binding
	LastPage      key.Binding
	Refresh       key.Binding
	UpdateStatus  key.Binding
	Download      key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Submission form
	SubmitForm  key.Binding
	RemoveImage key.Binding
	Complete    key.Binding

	// Update dialog
	CycleLifted   key.Binding
	ToggleInvoice key.Binding

	// Activity
	ToggleFollow key.Binding
	CycleLevel   key.Binding

	// Input
	Confirm key.Binding
	Clear   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field / pane"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field / pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / cancel"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Sign out"),
		),

		// View switching
		ViewPackets: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Packets"),
		),
		ViewSubmit: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New packet"),
		),
		ViewActivity: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Activity log"),
		),

		// Packet list
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search loan account"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle status filter"),
		),
		SaveStatus: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Save filter as default"),
		),
		DateRange: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Date range"),
		),
		ToggleHistory: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Toggle history"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "Next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "Last page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		UpdateStatus: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Lifted / invoice"),
		),
		Download: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Download invoice"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Scroll down"),
		),

		// Submission form
		SubmitForm: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Submit packet"),
		),
		RemoveImage: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Remove last image"),
		),
		Complete: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "Accept suggestion"),
		),

		// Update dialog
		CycleLifted: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Cycle lifted / hold"),
		),
		ToggleInvoice: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Toggle invoice"),
		),

		// Activity
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Cycle minimum level"),
		),

		// Input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "Clear field"),
		),
	}
}

// helpGroup is one titled block of the help overlay.
type helpGroup struct {
	title    string
	bindings []key.Binding
}

// helpGroups lists the bindings shown in the help overlay, grouped by view.
func (k keyMap) helpGroups() []helpGroup {
	return []helpGroup{
		{"Views", []key.Binding{k.ViewPackets, k.ViewSubmit, k.ViewActivity, k.Logout}},
		{"Packets", []key.Binding{
			k.Up, k.Down, k.Top, k.Bottom,
			k.Search, k.CycleStatus, k.SaveStatus, k.DateRange, k.ToggleHistory,
			k.PrevPage, k.NextPage, k.FirstPage, k.LastPage,
			k.Refresh, k.UpdateStatus, k.Download,
		}},
		{"New packet", []key.Binding{k.Tab, k.Complete, k.Confirm, k.RemoveImage, k.SubmitForm, k.Clear, k.Escape}},
		{"Activity", []key.Binding{k.ToggleFollow, k.CycleLevel, k.PageUp, k.PageDown}},
		{"General", []key.Binding{k.CycleTheme, k.Help, k.Quit}},
	}
}
