// Package repl provides the interactive shell for rentdesk-cli.
//
//   - repl.go: read-eval-print loop and line splitting
//   - completer.go: command suggestions built from the command tree
//   - history.go: persistent command history
//
// Each line runs as one command invocation with its own context, so
// Ctrl-C cancels the command in flight and leaves the shell running.
package repl
