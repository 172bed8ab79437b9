// Package cli provides the interactive DentaCare command-line client.
//
// It wires configuration, token storage, the API client and the services
// into a REPL. On start it restores a persisted session, then runs a
// background watcher that re-validates the session periodically.
//
// Key features:
//   - Register / Login / Logout
//   - WhoAmI for the signed-in user
//   - Chat with the clinic assistant and review the history
//   - Notifications printed as they arrive and listed on demand
//
// Every command that stands for a screen is checked by the route guard
// before it runs. The REPL is started via App.Run(ctx), which blocks until
// the user exits. See App, StartSessionWatcher and runREPL for details.
package cli
