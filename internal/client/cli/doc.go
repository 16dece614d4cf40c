// Package cli provides the interactive bookflix command-line client.
//
// It wires configuration, the local session database, the API client and
// the application services, and runs a REPL over them. The REPL is the view
// layer: service errors are printed as one display line, subscription-gate
// denials become upgrade hints, and an expired session prints a notice
// asking the user to log in again.
//
// Commands:
//   - register / login / logout / whoami / profile [edit]
//   - trending / new / recommended / search <q> / book <id>
//   - fav <id> / unfav <id> / progress <id> <0-100>
//   - sub / tiers / upgrade <tier> / can <feature> [tier]
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
