// Package logging provides structured logging for fermsim.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the simulator.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig section of the config file:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting simulator", "port", 8080)
//	logger.Error("failed to bind", "error", err)
//
// # Security
//
// Never log secrets, tokens, or passwords. The operator password and
// session tokens in particular must stay out of log output.
package logging
