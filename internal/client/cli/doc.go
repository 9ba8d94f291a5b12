// Package cli provides the interactive ragkeeper command-line client.
//
// The user logs in with a username and a hidden password prompt, then types
// questions; each one is sent to the server and the answer is printed with
// the source documents it was grounded on. A background watcher pings the
// server and reports when connectivity changes.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
