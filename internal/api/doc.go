// Package api is the HTTP client for the gold-packet auction REST API.
//
// Every endpoint answers with the same envelope:
//
//	{"success": true, "data": ..., "message": "...", "meta": {...}}
//
// The generic helpers Get, Post, Put, Patch, Delete and PostForm decode that
// envelope into Envelope[T]. Non-2xx responses become *Error with the
// server's message (or "An error occurred"), and transport failures become
// *Error with status 500 and "Network error occurred".
//
// The Client does not own the bearer token. It asks a Credentials value for
// it on every request and calls Credentials.Clear when any response is a 401,
// so one rejected call signs the whole console out.
package api
