package conf

import "github.com/tphakala/perfreport/internal/logger"

// GetLogger returns the config package logger scoped to the config module.
// Fetched on each call so it follows SetGlobal made after package init.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
