// Package cli provides the interactive eproduct command-line client.
//
// It wires configuration, the local token store, the HTTP gateway, the
// session store and the views into a REPL. The session is validated in the
// background on start-up; commands that need a signed-in user go through the
// route guard and wait for that validation to finish.
//
// Commands:
//   - signup / login / logout / whoami
//   - products, show <id>, image <id>
//   - mine, add, edit <id>, delete <id>
//   - profile
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
