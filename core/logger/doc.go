// Package logger provides structured logging built on Go's standard slog
// package: an environment-driven factory plus attribute helpers for the
// fields this module logs most (errors, endpoints, sessions, scores).
//
// # Factory
//
// New builds a *slog.Logger from Config, which maps directly onto
// environment variables:
//
//	cfg, err := config.Load[logger.Config]()
//	if err != nil { ... }
//
//	log := logger.New(cfg, logger.Component("guardkit"))
//
// Format "json" suits production ingestion; "text" is the default for
// development. Unknown formats fall back to text rather than failing,
// since a degraded log format should never block startup.
//
// # Attribute Helpers
//
// Helpers return the empty Attr for nil or zero input, so call sites can
// pass them unconditionally:
//
//	log.Warn("session continuity warnings",
//		logger.SessionID(id.String()),
//		logger.Score(v.Score),
//		logger.Warnings(v.Warnings),
//	)
//
//	log.Error("sweep failed", logger.Error(err))
package logger
