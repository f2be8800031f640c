// conf/validate.go

package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/logger"
)

// minWatchInterval bounds how often the watcher may export; file names only
// have second resolution
const minWatchInterval = time.Second

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %s", strings.Join(ve.Errors, "; "))
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateReportSettings(&settings.Report); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateWatchSettings(&settings.Watch); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateLoggingSettings(&settings.Logging); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("error_count", len(ve.Errors)).
			Build()
	}

	return nil
}

func validateReportSettings(r *ReportSettings) error {
	if r.Directory == "" {
		return fmt.Errorf("report.directory must not be empty")
	}
	if r.TicksPerMs <= 0 {
		return fmt.Errorf("report.ticksperms must be positive, got %d", r.TicksPerMs)
	}
	if _, err := r.Location(); err != nil {
		return fmt.Errorf("report.timezone %q: %w", r.Timezone, err)
	}
	return nil
}

func validateWatchSettings(w *WatchSettings) error {
	if w.Interval < minWatchInterval {
		return fmt.Errorf("watch.interval must be at least %s, got %s", minWatchInterval, w.Interval)
	}
	if w.CacheTTL < 0 {
		return fmt.Errorf("watch.cachettl must not be negative, got %s", w.CacheTTL)
	}
	return nil
}

func validateLoggingSettings(l *logger.LoggingConfig) error {
	if l.DefaultLevel != "" && !logger.ValidLevel(l.DefaultLevel) {
		return fmt.Errorf("logging.default_level %q is not a valid level", l.DefaultLevel)
	}
	for module, level := range l.ModuleLevels {
		if !logger.ValidLevel(level) {
			return fmt.Errorf("logging.module_levels.%s %q is not a valid level", module, level)
		}
	}
	return nil
}
