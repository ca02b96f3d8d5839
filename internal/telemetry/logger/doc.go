// Package logger provides structured logging for rentdesk-cli.
//
// It wraps log/slog:
//
//   - logger.go: handler configuration and the package-level default
//   - context.go: context propagation of the logger, request ID and view
//   - redact.go: masking of bearer tokens and credential fields
//
// Logs always go to stderr (or a configured writer) so that they never
// interleave with command output on stdout.
package logger
