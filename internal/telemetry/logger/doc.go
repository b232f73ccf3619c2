// Package logger provides structured logging for accessctl.
//
//   - logger.go: slog-backed Logger and the package-level default
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Sensitive data redaction
//
// Proxy passwords reach the logger through descriptor LogValue methods and
// through proxy URLs; both are masked before they are written.
package logger
