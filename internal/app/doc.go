// Package app is the composition root for packetdesk.
//
// Run loads the TOML config, opens the JSON log file, picks the session
// store named by [session].backend (file, redis or memory), restores any
// saved sign-in, builds the REST client with the session manager as its
// credential source, and hands the services to the Bubble Tea UI.
//
//	Run()
//	  ├─> config.Load()           ~/.config/packetdesk/config.toml
//	  ├─> logging.Open()          JSON lines to log_file
//	  ├─> openSessionStore()      file | redis | memory
//	  ├─> session.Manager.Init()  drops an expired token
//	  ├─> api.NewClient()         bearer token + 401 teardown
//	  ├─> StartPoller()           dashboard counters
//	  └─> ui.Run()                blocks until quit
//
// # Stats Poller
//
// The poller fetches /packets/stats every stats_interval while someone is
// signed in and records the result in the shared state.Store. Failed polls
// keep the previous counts and double the wait up to maxBackoff. The UI
// calls Refresh after a submission or status change so the header catches
// up without waiting for the next tick.
//
// Config errors are fatal. A session that cannot be restored only logs a
// warning and the UI opens on the login view.
package app
