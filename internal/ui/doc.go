// Package ui is the Bubble Tea console for packetdesk.
//
// # Views
//
//   - Login: username and password form, shown whenever no session is held
//   - Packets: paged list of packets beside the selected packet's details
//   - New packet: submission form with image uploads
//   - Activity: tail of packetdesk's own JSON log file
//
// The header shows the dashboard counters recorded by the stats poller and
// the signed-in user. The command bar lists the keys for the current view
// and the footer shows the newest notification.
//
// # Data Flow
//
// Network calls run as tea.Cmds and report back as messages. Every list
// fetch takes a sequence number from state.Store and a response is applied
// only if no newer fetch was issued since, so out-of-order responses never
// overwrite fresher results. Search keystrokes are debounced off the
// event loop and come back as searchSettledMsg through msgRelay.
//
// A 401 from any call clears the session (done by the API client), resets
// the store and returns to the login view.
//
// # Modals
//
// The date range picker and the lifted/invoice editor implement Modal. While
// a modal is open it receives every key; it closes by returning true from
// Update and may hand back a command carrying its result.
package ui
