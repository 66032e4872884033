// Package logging provides a minimal logging facade for the irmaseal
// package.
//
// This package defines a Logger interface that wraps a subset of the standard
// library's log/slog functionality. The interface is intentionally small to
// allow applications to provide custom implementations for testing, redaction,
// or integration with existing logging systems.
//
// # Logger Interface
//
// The Logger interface exposes only what Sealer and Opener actually call:
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	}
//
// # Default Implementation
//
// The package provides a default slog-backed implementation:
//
//	import (
//	    "log/slog"
//	    "github.com/privacybydesign/irmaseal-go/pkg/irmaseal/logging"
//	)
//
//	logger := logging.New(nil)
//
// # Redaction Support
//
// Sealer and Opener never log skey, mackey, the IBE shared secret, or a
// UserSecretKey. Where a diagnostic needs to reference one, it logs a
// redaction marker instead:
//
//	logger.Debug(ctx, "derived keys", logging.Redacted("skey"), logging.Redacted("mackey"))
//
// # Security Considerations
//
//   - Never log skey, mackey, the IBE shared secret, or a UserSecretKey
//   - Use logging.Redacted() to mark sensitive attributes
//   - The MAC tag and IV are not secret and may be logged
package logging
