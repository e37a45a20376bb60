// Package logger provides a structured logging facility based on Zap.
//
// The debug level selects zap's development configuration; every other level uses the
// production configuration with the level overridden. Lines are encoded as JSON or, for
// interactive use, as colored console output.
//
// # Request Correlation
//
// WithRayID extracts the ray id stored by the rayid middleware from a Fiber context and
// attaches it to the logger, so every line of one control plane request can be correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Run finished", zap.String("mode", "sync"))
package logger
