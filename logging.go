package busboard

import (
	"log/slog"
	"os"

	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/internal/logging"
)

// InitLogging installs the process-wide logger on stdout and returns it.
func InitLogging(cfg config.LoggingConfig) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.Level, cfg.Format)
	slog.SetDefault(logger)
	return logger
}
