// Package config loads packetdesk configuration from TOML.
//
// # Resolution
//
// Load reads ~/.config/packetdesk/config.toml unless a path is given. A
// missing file is not an error: every field has a default, and blank values
// in the file fall back to those defaults as well. After the file is applied,
// a handful of PACKETDESK_* environment variables override it, so a .env file
// loaded by the binary can point a terminal at a staging API without editing
// the shared config.
//
// # Fields
//
//	api_url          base URL including the /api prefix
//	page_size        packets per list page (10)
//	search_debounce  quiet period before a search fires (500ms)
//	request_timeout  per request HTTP timeout (15s)
//	stats_interval   header stats refresh cadence (30s)
//	download_dir     where invoices are written
//	log_file         zerolog JSON output, read back by the Activity view
//	log_level        debug, info, warn or error
//
//	[session]
//	backend          file, redis or memory
//	path             session file for the file backend
//	redis_addr       redis host:port for the redis backend
//	redis_db         redis database number
//	redis_key        redis hash holding the session
//
// Durations use time.ParseDuration syntax. Paths support ~ expansion and are
// returned absolute.
package config
