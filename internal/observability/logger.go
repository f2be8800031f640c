package observability

import "github.com/tphakala/perfreport/internal/logger"

// getLogger resolves the module logger on each call so it follows SetGlobal.
func getLogger() logger.Logger {
	return logger.Global().Module("metrics")
}
