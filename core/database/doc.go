// Package database opens the optional MySQL connection used for run history.
//
// It wraps GORM with the MySQL dialector, encodes credentials into the DSN, applies
// connect/read/write timeouts and verifies the connection with a ping before returning.
// The connection is optional: commands log a warning and continue without history when
// Connect fails.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Run history disabled", zap.Error(err))
//	}
package database
