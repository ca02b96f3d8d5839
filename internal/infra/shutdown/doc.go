// Package shutdown runs cleanup hooks when rentdesk-cli exits.
//
// The runtime registers every resource it opens (the badger session
// store, the session file watcher, the metrics listener) and Shutdown
// closes them in reverse order:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnClose(db.Close)
//	defer h.Shutdown()
package shutdown
