// Package cli provides the interactive authapp command-line client.
//
// It wires configuration, the local session store, the API client and the
// session manager, then runs a REPL whose commands map onto four views:
// home, login, register and profile. The session manager drives
// navigation; the router tells the App which view to render next.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is cancelled.
package cli
