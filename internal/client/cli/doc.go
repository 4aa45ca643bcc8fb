// Package cli provides the interactive Eventhub command-line client.
//
// NewApp wires configuration, the local credential store, the HTTP client
// and the services. App.Run restores a stored session, then runs the REPL
// until the user exits. When a token refresh fails the session ends and the
// REPL asks the user to log in again.
//
// Commands:
//   - register, login, logout, whoami, profile
//   - status: backend address and stored token state
//   - events [key=value ...], event <slug>, sessions <slug>
//   - attend <slug>, metrics, export <slug>
package cli
