package sampledump

import "github.com/tphakala/perfreport/internal/logger"

func getLogger() logger.Logger {
	return logger.Global().Module("sampledump")
}
