// Package cli provides the interactive credvault command-line client.
//
// It wires configuration, the credential vault, the audit trail and the
// passphrase identity gate into a small REPL. Typical flow: register or
// log in as an owner, then add, get, list and delete credentials for that
// owner. A session ends on logout, on exit, or after SessionTimeout of
// inactivity.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli
