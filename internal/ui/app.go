package ui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/packetdesk/internal/api"
	"github.com/five82/packetdesk/internal/auth"
	"github.com/five82/packetdesk/internal/config"
	"github.com/five82/packetdesk/internal/debounce"
	"github.com/five82/packetdesk/internal/packets"
	"github.com/five82/packetdesk/internal/prefs"
	"github.com/five82/packetdesk/internal/session"
	"github.com/five82/packetdesk/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewPackets
	ViewSubmit
	ViewActivity
)

// AuthService signs staff in and out.
type AuthService interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.LoginResult, error)
	Logout(ctx context.Context) error
}

// PacketService is the packet API surface the views use.
type PacketService interface {
	List(ctx context.Context, q packets.Query) (packets.Page, error)
	Create(ctx context.Context, req packets.CreateRequest) (packets.Packet, error)
	Upload(ctx context.Context, path string) (packets.Upload, error)
	ApplyUpdate(ctx context.Context, p packets.Packet, e packets.Edit) packets.UpdateResult
	DownloadInvoice(ctx context.Context, id, dir string) (string, error)
}

// SessionState reports who is signed in.
type SessionState interface {
	User() *session.User
	IsAuthenticated() bool
}

// StatsRefresher asks the background poller for an immediate stats fetch.
type StatsRefresher interface {
	Refresh()
}

// Options configures the UI.
type Options struct {
	Auth      AuthService
	Packets   PacketService
	Session   SessionState
	Store     *state.Store
	Stats     StatsRefresher
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	auth      AuthService
	packets   PacketService
	session   SessionState
	store     *state.Store
	stats     StatsRefresher
	config    config.Config
	prefs     prefs.Prefs
	prefsPath string
	log       zerolog.Logger

	// Async plumbing shared by every copy of the model
	relay  *msgRelay
	search *debounce.Debouncer[string]

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Data state
	snapshot state.Snapshot
	now      time.Time

	list     listState
	login    loginState
	submit   submitState
	activity activityState
	toasts   []toast
}

// msgRelay delivers messages produced outside the Bubble Tea command loop,
// such as debounce timers, to the running program.
type msgRelay struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (r *msgRelay) bind(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = send
}

func (r *msgRelay) Send(msg tea.Msg) {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// New creates a new Bubble Tea model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Defaults()
	}

	relay := &msgRelay{}
	delay := opts.Config.SearchDebounce
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	m := Model{
		ctx:       ctx,
		auth:      opts.Auth,
		packets:   opts.Packets,
		session:   opts.Session,
		store:     store,
		stats:     opts.Stats,
		config:    opts.Config,
		prefs:     userPrefs,
		prefsPath: opts.PrefsPath,
		log:       opts.Logger,
		relay:     relay,
		search: debounce.New(delay, func(term string) {
			relay.Send(searchSettledMsg(term))
		}),
		keys:        DefaultKeyMap(),
		theme:       GetTheme(userPrefs.Theme),
		currentView: ViewLogin,
		now:         time.Now(),
		list:        newListState(opts.Config.PageSize, userPrefs.DefaultStatus),
		login:       newLoginState(),
		submit:      newSubmitState(),
		activity:    newActivityState(),
	}
	if m.authenticated() {
		m.currentView = ViewPackets
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(time.Second),
		fetchSnapshotCmd(m.store),
	}
	if m.currentView == ViewPackets {
		cmds = append(cmds, m.fetchList())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, nil

	case pageMsg:
		return m.handlePage(msg)

	case searchSettledMsg:
		return m.applySearch(string(msg))

	case dateRangeMsg:
		q, changed := m.list.query.WithDateRange(msg.from, msg.to)
		return m.setQuery(q, changed)

	case editConfirmedMsg:
		return m, m.applyUpdate(msg.packet, msg.edit)

	case updateResultMsg:
		return m.handleUpdateResult(msg)

	case downloadMsg:
		return m.handleDownload(msg)

	case loginMsg:
		return m.handleLogin(msg)

	case logoutMsg:
		return m.handleLogout(msg)

	case imageUploadedMsg:
		return m.handleImageUploaded(msg)

	case createdMsg:
		return m.handleCreated(msg)

	case activityMsg:
		m.handleActivity(msg)
		return m, nil
	}

	if cmd, ok := m.updateSpinner(msg); ok {
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey routes keyboard input: help and modals first, then any focused
// text input, then global keys, then the current view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewPackets:
		if m.list.searching {
			return m.handleSearchKey(msg)
		}
	case ViewSubmit:
		if m.submit.editing() {
			return m.handleSubmitKey(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m, m.logout()

	case key.Matches(msg, m.keys.ViewPackets):
		m.currentView = ViewPackets
		return m, nil

	case key.Matches(msg, m.keys.ViewSubmit):
		m.currentView = ViewSubmit
		m.submit.focusField(fieldGross)
		return m, nil

	case key.Matches(msg, m.keys.ViewActivity):
		m.currentView = ViewActivity
		cmd := m.refreshActivity(true)
		return m, cmd
	}

	switch m.currentView {
	case ViewPackets:
		return m.handlePacketsKey(msg)
	case ViewSubmit:
		return m.handleSubmitKey(msg)
	case ViewActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.search != nil {
		m.search.Stop()
	}
	return m, tea.Quit
}

// handleTick processes the one second UI tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.now = now
	m.toasts = expireToasts(m.toasts, now)

	cmds := []tea.Cmd{fetchSnapshotCmd(m.store), tickCmd(time.Second)}

	if m.currentView != ViewLogin && !m.authenticated() {
		m.signedOut("Your session has ended. Please sign in again.")
	}

	if m.currentView == ViewActivity && m.activity.follow {
		if cmd := m.refreshActivity(false); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleUnauthorized reacts to a 401 from any call. The API client has
// already cleared the stored session.
func (m Model) handleUnauthorized() (tea.Model, tea.Cmd) {
	m.signedOut("Session expired. Please sign in again.")
	return m, nil
}

// signedOut drops all data and returns to the login view.
func (m *Model) signedOut(reason string) {
	m.store.Reset()
	m.snapshot = m.store.Snapshot()
	m.currentView = ViewLogin
	m.modal = nil
	m.list = newListState(m.config.PageSize, m.prefs.DefaultStatus)
	m.submit = newSubmitState()
	m.login = newLoginState()
	if reason != "" {
		m.notify(toastWarning, reason)
	}
}

func (m Model) authenticated() bool {
	return m.session != nil && m.session.IsAuthenticated()
}

func (m Model) refreshStats() {
	if m.stats != nil {
		m.stats.Refresh()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Msg("save preferences failed")
		m.notify(toastError, "Could not save preferences")
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	return m.renderHeader() + "\n" +
		m.renderCommandBar() + "\n" +
		m.renderContent() + "\n" +
		m.renderFooter()
}

// contentHeight is the space left under the header and command bar and
// above the footer.
func (m Model) contentHeight() int {
	return max(m.height-3, 3)
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.renderLogin()
	case ViewPackets:
		return m.renderPackets()
	case ViewSubmit:
		return m.renderSubmit()
	case ViewActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// errorText returns the message shown to the user for err.
func errorText(err error) string {
	if packets.IsValidation(err) {
		return validationText(err)
	}
	return api.Message(err)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.relay.bind(p.Send)
	defer m.search.Stop()

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
