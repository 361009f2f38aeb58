package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/packetdesk/internal/api"
	"github.com/five82/packetdesk/internal/packets"
)

// listState holds the packet list inputs and selection.
type listState struct {
	query       packets.Query
	selectedRow int
	searching   bool
	searchInput textinput.Model
	loading     bool
}

type pageMsg struct {
	seq  uint64
	page packets.Page
	err  error
}

type searchSettledMsg string

type updateResultMsg struct {
	packet packets.Packet
	result packets.UpdateResult
}

type downloadMsg struct {
	packetID string
	path     string
	err      error
}

func newListState(perPage int, defaultStatus string) listState {
	q := packets.NewQuery(perPage)
	q, _ = q.WithStatus(packets.Status(defaultStatus))
	return listState{
		query:       q,
		searchInput: newInput("Loan account number", 64, 28),
	}
}

// fetchList issues a list fetch for the current query. Only the response to
// the most recent fetch is applied.
func (m *Model) fetchList() tea.Cmd {
	if m.packets == nil {
		return nil
	}
	seq := m.store.BeginFetch()
	m.list.loading = true
	svc, ctx, q := m.packets, m.ctx, m.list.query
	return func() tea.Msg {
		page, err := svc.List(ctx, q)
		return pageMsg{seq: seq, page: page, err: err}
	}
}

func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if api.IsUnauthorized(msg.err) {
		return m.handleUnauthorized()
	}

	var page *packets.Page
	if msg.err == nil {
		page = &msg.page
	}
	if !m.store.ApplyPage(msg.seq, page, msg.err) {
		return m, nil
	}

	m.list.loading = false
	m.snapshot = m.store.Snapshot()
	m.clampSelection()
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("list packets failed")
		m.notify(toastError, "Failed to fetch packets: "+errorText(msg.err))
	}
	return m, nil
}

// setQuery adopts q and refetches when it differs from the current query.
func (m Model) setQuery(q packets.Query, changed bool) (tea.Model, tea.Cmd) {
	if !changed || m.currentView == ViewLogin {
		return m, nil
	}
	m.list.query = q
	m.list.selectedRow = 0
	cmd := m.fetchList()
	return m, cmd
}

func (m Model) applySearch(term string) (tea.Model, tea.Cmd) {
	q, changed := m.list.query.WithSearch(term)
	return m.setQuery(q, changed)
}

func (m *Model) clampSelection() {
	count := len(m.snapshot.Page.Items)
	if count == 0 {
		m.list.selectedRow = 0
		return
	}
	if m.list.selectedRow >= count {
		m.list.selectedRow = count - 1
	}
	if m.list.selectedRow < 0 {
		m.list.selectedRow = 0
	}
}

func (m Model) selectedPacket() (packets.Packet, bool) {
	items := m.snapshot.Page.Items
	if m.list.selectedRow < 0 || m.list.selectedRow >= len(items) {
		return packets.Packet{}, false
	}
	return items[m.list.selectedRow], true
}

func (m Model) totalPages() int {
	page := m.snapshot.Page
	if page.TotalPages > 0 {
		return page.TotalPages
	}
	return packets.TotalPages(page.Total, m.list.query.PerPage)
}

// handleSearchKey edits the loan account search. Keystrokes are debounced;
// Enter applies the term at once.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.list.searching = false
		m.list.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.search.Flush()
		m.list.searching = false
		m.list.searchInput.Blur()
		return m.applySearch(m.list.searchInput.Value())

	case key.Matches(msg, m.keys.Clear):
		m.list.searchInput.SetValue("")
		m.search.Push("")
		return m, nil
	}

	before := m.list.searchInput.Value()
	var cmd tea.Cmd
	m.list.searchInput, cmd = m.list.searchInput.Update(msg)
	if value := m.list.searchInput.Value(); value != before {
		m.search.Push(value)
	}
	return m, cmd
}

// handlePacketsKey processes keyboard input for the packet list.
func (m Model) handlePacketsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.list.query
	count := len(m.snapshot.Page.Items)

	switch {
	case key.Matches(msg, m.keys.Search):
		if q.History {
			m.notify(toastInfo, "Search is not available in history")
			return m, nil
		}
		m.list.searching = true
		m.list.searchInput.SetValue(q.Search)
		m.list.searchInput.CursorEnd()
		m.list.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if q.Search == "" {
			return m, nil
		}
		m.search.Flush()
		m.list.searchInput.SetValue("")
		return m.applySearch("")

	case key.Matches(msg, m.keys.CycleStatus):
		if q.History {
			m.notify(toastInfo, "History always shows every status")
			return m, nil
		}
		return m.setQuery(q.WithStatus(packets.NextStatusFilter(q.Status)))

	case key.Matches(msg, m.keys.SaveStatus):
		m.prefs.DefaultStatus = string(q.Status)
		m.savePrefs()
		m.notify(toastSuccess, "Default filter set to "+statusLabel(q))
		return m, nil

	case key.Matches(msg, m.keys.DateRange):
		if q.History {
			m.notify(toastInfo, "Date range is not available in history")
			return m, nil
		}
		m.modal = newDateRangeModal(q.DateFrom, q.DateTo)
		return m, nil

	case key.Matches(msg, m.keys.ToggleHistory):
		m.search.Flush()
		m.list.searchInput.SetValue("")
		return m.setQuery(q.WithHistory(!q.History))

	case key.Matches(msg, m.keys.PrevPage):
		return m.setQuery(q.WithPage(q.Page - 1))

	case key.Matches(msg, m.keys.NextPage):
		if q.Page >= m.totalPages() {
			return m, nil
		}
		return m.setQuery(q.WithPage(q.Page + 1))

	case key.Matches(msg, m.keys.FirstPage):
		return m.setQuery(q.WithPage(1))

	case key.Matches(msg, m.keys.LastPage):
		return m.setQuery(q.WithPage(max(m.totalPages(), 1)))

	case key.Matches(msg, m.keys.Refresh):
		m.refreshStats()
		cmd := m.fetchList()
		return m, cmd

	case key.Matches(msg, m.keys.UpdateStatus):
		p, ok := m.selectedPacket()
		if !ok {
			return m, nil
		}
		if q.History {
			m.notify(toastInfo, "History is read-only")
			return m, nil
		}
		if !p.CanTransition() {
			m.notify(toastWarning, "Only approved packets can be lifted or put on hold")
			return m, nil
		}
		m.modal = newUpdateModal(p)
		return m, nil

	case key.Matches(msg, m.keys.Download):
		p, ok := m.selectedPacket()
		if !ok {
			return m, nil
		}
		if !p.InvoiceStatus {
			m.notify(toastWarning, "This packet has no invoice")
			return m, nil
		}
		m.notify(toastInfo, "Downloading invoice...")
		return m, m.downloadInvoice(p)
	}

	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.list.selectedRow < count-1 {
			m.list.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.list.selectedRow > 0 {
			m.list.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.list.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.list.selectedRow = count - 1
	}
	return m, nil
}

// applyUpdate commits an edit. The list is refetched whatever the outcome.
func (m Model) applyUpdate(p packets.Packet, edit packets.Edit) tea.Cmd {
	if m.packets == nil {
		return nil
	}
	svc, ctx := m.packets, m.ctx
	return func() tea.Msg {
		return updateResultMsg{packet: p, result: svc.ApplyUpdate(ctx, p, edit)}
	}
}

func (m Model) handleUpdateResult(msg updateResultMsg) (tea.Model, tea.Cmd) {
	res := msg.result
	if api.IsUnauthorized(res.Err) {
		return m.handleUnauthorized()
	}

	switch {
	case res.Err == nil && !res.Changed():
		m.notify(toastInfo, "Nothing to update")
	case res.Err == nil:
		m.notify(toastSuccess, "Packet status updated successfully")
	case res.Partial():
		m.notify(toastWarning, fmt.Sprintf("Lifted status saved, but %s failed: %s", res.FailedStep, errorText(res.Err)))
	default:
		m.notify(toastError, fmt.Sprintf("Failed to update %s: %s", res.FailedStep, errorText(res.Err)))
	}
	if res.Err != nil {
		m.log.Warn().Err(res.Err).Str("packet", msg.packet.ID).Str("step", string(res.FailedStep)).Msg("packet update failed")
	}

	m.refreshStats()
	cmd := m.fetchList()
	return m, cmd
}

func (m Model) downloadInvoice(p packets.Packet) tea.Cmd {
	if m.packets == nil {
		return nil
	}
	svc, ctx, dir := m.packets, m.ctx, m.config.DownloadDir
	return func() tea.Msg {
		path, err := svc.DownloadInvoice(ctx, p.ID, dir)
		return downloadMsg{packetID: p.ID, path: path, err: err}
	}
}

func (m Model) handleDownload(msg downloadMsg) (tea.Model, tea.Cmd) {
	switch {
	case api.IsUnauthorized(msg.err):
		return m.handleUnauthorized()
	case errors.Is(msg.err, packets.ErrNoInvoice):
		m.notify(toastWarning, "This packet has no invoice")
	case msg.err != nil:
		m.notify(toastError, "Failed to download invoice: "+errorText(msg.err))
	default:
		m.notify(toastSuccess, "Invoice saved to "+truncateMiddle(msg.path, 60))
	}
	return m, nil
}

// statusLabel names the active status filter.
func statusLabel(q packets.Query) string {
	if q.History {
		return "History"
	}
	return titleCase(string(q.Status))
}

// listTitle describes the list and its active filters.
func listTitle(q packets.Query) string {
	if q.History {
		return "History (read-only)"
	}
	parts := []string{"Packets", statusLabel(q)}
	if q.Search != "" {
		parts = append(parts, "loan "+q.Search)
	}
	if r := dateRangeLabel(q); r != "" {
		parts = append(parts, r)
	}
	return strings.Join(parts, " · ")
}

func dateRangeLabel(q packets.Query) string {
	from, to := q.DateFrom, q.DateTo
	switch {
	case from.IsZero() && to.IsZero():
		return ""
	case to.IsZero():
		return "from " + from.Local().Format(dateLayout)
	case from.IsZero():
		return "until " + to.Local().Format(dateLayout)
	default:
		return from.Local().Format(dateLayout) + " to " + to.Local().Format(dateLayout)
	}
}

// renderPackets renders the list pane beside the detail pane.
func (m Model) renderPackets() string {
	height := m.contentHeight()
	listWidth, detailWidth := splitWidths(m.width)
	if m.width < 90 {
		listWidth, detailWidth = m.width, 0
	}

	listContent := m.renderPacketTable(listWidth-2, height-2)
	listPane := m.renderTitledBox(listTitle(m.list.query), listContent, listWidth, height, true)
	if detailWidth == 0 {
		return listPane
	}

	var detail string
	if p, ok := m.selectedPacket(); ok {
		detail = m.renderPacketDetail(p, detailWidth-4)
	} else {
		detail = m.theme.Styles().MutedText.Render("Select a packet")
	}
	detailPane := m.renderTitledBox("Details", indent(detail, 1), detailWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

type tableColumn struct {
	title string
	width int
}

func packetColumns(width int) []tableColumn {
	cols := []tableColumn{
		{"Loan Account", 16},
		{"Bank", 0},
		{"Gross", 9},
		{"Net", 9},
		{"Status", 9},
		{"Created", 11},
	}
	fixed := len(cols)
	for _, c := range cols {
		fixed += c.width
	}
	cols[1].width = max(width-fixed-1, 8)
	return cols
}

// renderPacketTable renders the search line, rows and pagination.
func (m Model) renderPacketTable(width, height int) string {
	styles := m.theme.Styles()
	bgColor := m.theme.FocusBg
	bg := onBackground(bgColor)
	snap := m.snapshot
	q := m.list.query

	var lines []string

	if m.list.searching || q.Search != "" {
		label := bg.Render("Search", styles.MutedText) + bg.Space()
		if m.list.searching {
			lines = append(lines, " "+label+m.list.searchInput.View())
		} else {
			lines = append(lines, " "+label+bg.Render(q.Search, styles.AccentText)+
				bg.Spaces(2)+bg.Render("esc to clear", styles.FaintText))
		}
	}

	cols := packetColumns(width)
	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, padRight(c.title, c.width))
	}
	lines = append(lines, " "+bg.Render(strings.Join(header, " "), styles.FaintText.Bold(true)))

	switch {
	case snap.PageError != nil:
		lines = append(lines, "", " "+bg.Render("Failed to fetch packets: "+errorText(snap.PageError), styles.DangerText))
	case !snap.HasPage:
		lines = append(lines, "", " "+bg.Render("Loading packets...", styles.WarningText))
	case len(snap.Page.Items) == 0:
		msg := "No packets found"
		if q.HasFilters() {
			msg = "No packets match the current filters"
		}
		lines = append(lines, "", " "+bg.Render(msg, styles.MutedText))
	default:
		for i, p := range snap.Page.Items {
			lines = append(lines, m.formatPacketRow(p, cols, width, i == m.list.selectedRow))
		}
	}

	footer := m.renderPagination(bg, styles)
	padding := height - len(lines) - len(footer)
	for i := 0; i < padding; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, footer...)
	return strings.Join(lines, "\n")
}

// formatPacketRow renders one table row.
func (m Model) formatPacketRow(p packets.Packet, cols []tableColumn, width int, selected bool) string {
	values := []string{
		p.LoanAccountNumber,
		p.BankName,
		p.GrossWeight.String() + "g",
		p.NetWeight.String() + "g",
		titleCase(string(p.Status)),
		formatDate(p.CreatedAt),
	}
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = padRight(truncate(values[i], c.width), c.width)
	}

	if selected {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SelectionBg)).
			Foreground(lipgloss.Color(m.theme.SelectionText)).
			Width(width).
			Render(" " + strings.Join(cells, " "))
	}

	styles := m.theme.Styles()
	bg := onBackground(m.theme.FocusBg)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.colorForStatus(string(p.Status))))
	sep := bg.Space()
	return bg.Space() +
		bg.Render(cells[0], styles.Text) + sep +
		bg.Render(cells[1], styles.MutedText) + sep +
		bg.Render(cells[2], styles.Text) + sep +
		bg.Render(cells[3], styles.Text) + sep +
		bg.Render(cells[4], statusStyle) + sep +
		bg.Render(cells[5], styles.FaintText)
}

// renderPagination renders the page links and the entry range.
func (m Model) renderPagination(bg bgPainter, styles Styles) []string {
	snap := m.snapshot
	if !snap.HasPage || snap.Page.Total == 0 {
		return nil
	}
	current := m.list.query.Page
	if snap.Page.CurrentPage > 0 {
		current = snap.Page.CurrentPage
	}
	perPage := m.list.query.PerPage
	if snap.Page.PerPage > 0 {
		perPage = snap.Page.PerPage
	}

	links := packets.Window(current, m.totalPages())
	parts := make([]string, 0, len(links)+2)
	if current > 1 {
		parts = append(parts, bg.Render("‹", styles.AccentText))
	}
	for _, link := range links {
		switch {
		case link.Gap:
			parts = append(parts, bg.Render("…", styles.FaintText))
		case link.Page == current:
			parts = append(parts, styles.Selected.Render(fmt.Sprintf(" %d ", link.Page)))
		default:
			parts = append(parts, bg.Render(fmt.Sprint(link.Page), styles.MutedText))
		}
	}
	if current < m.totalPages() {
		parts = append(parts, bg.Render("›", styles.AccentText))
	}

	from, to := packets.Showing(current, perPage, snap.Page.Total)
	showing := fmt.Sprintf("Showing %d to %d of %d entries", from, to, snap.Page.Total)
	if m.list.loading {
		showing += "  (refreshing)"
	}
	return []string{
		" " + bg.Join(parts, " "),
		" " + bg.Render(showing, styles.FaintText),
	}
}

// renderPacketDetail renders the selected packet's fields.
func (m Model) renderPacketDetail(p packets.Packet, width int) string {
	styles := m.theme.Styles()
	bg := onBackground(m.theme.SurfaceAlt)

	row := func(label, value string, style lipgloss.Style) string {
		return bg.Render(padRight(label, 14), styles.MutedText) +
			bg.Render(truncate(value, max(width-15, 8)), style)
	}

	lines := []string{
		row("Loan account", p.LoanAccountNumber, styles.Text.Bold(true)),
		row("Bank", p.BankName, styles.Text),
		row("Branch", p.BranchName, styles.Text),
		row("Gross weight", p.GrossWeight.String()+" g", styles.Text),
		row("Net weight", p.NetWeight.String()+" g", styles.Text),
		"",
		bg.Render(padRight("Status", 14), styles.MutedText) + styles.StatusStyle(string(p.Status)).Render(titleCase(string(p.Status))),
	}

	if p.Status == packets.StatusRejected && p.RejectionReason != "" {
		lines = append(lines, row("Reason", p.RejectionReason, styles.DangerText))
	}
	if p.LiftedStatus != packets.LiftedNone {
		lines = append(lines, bg.Render(padRight("Lifted", 14), styles.MutedText)+
			styles.StatusStyle(string(p.LiftedStatus)).Render(p.LiftedStatus.Label()))
	} else {
		lines = append(lines, row("Lifted", p.LiftedStatus.Label(), styles.FaintText))
	}
	lines = append(lines, row("Invoice", yesNo(p.InvoiceStatus), styles.Text))

	submitter := p.SubmitterName
	if submitter == "" {
		submitter = p.SubmittedBy
	}
	lines = append(lines,
		"",
		row("Submitted by", submitter, styles.Text),
		row("Created", formatDateTime(p.CreatedAt), styles.Text),
		row("Updated", formatDateTime(p.UpdatedAt), styles.FaintText),
		row("Images", fmt.Sprintf("%d", len(p.Images)), styles.Text),
	)
	for _, id := range p.Images {
		lines = append(lines, bg.Render("  • "+truncateMiddle(id, max(width-6, 8)), styles.FaintText))
	}

	var hints []string
	if p.CanTransition() && !m.list.query.History {
		hints = append(hints, "u: lifted / invoice")
	}
	if p.InvoiceStatus {
		hints = append(hints, "o: download invoice")
	}
	if len(hints) > 0 {
		lines = append(lines, "", bg.Render(strings.Join(hints, "   "), styles.AccentText))
	}
	return strings.Join(lines, "\n")
}

// colorForStatus returns the theme color for a given status.
func (m Model) colorForStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Text
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
