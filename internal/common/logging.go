package common

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

const logFileName = "atlassian-utils.log"

var (
	loggerMu sync.RWMutex
	logger   arbor.ILogger
)

// GetLogger returns the process-wide logger, building one with default
// settings if InitLogger has not run.
func GetLogger() arbor.ILogger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		l, err := newLogger(DefaultLoggingConfig())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize default logger: %v\n", err)
			l = arbor.NewLogger()
		}
		logger = l
	}
	return logger
}

// InitLogger configures the process-wide logger. A no-op when a logger is
// already set.
func InitLogger(config *LoggingConfig) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if logger != nil {
		return nil
	}

	l, err := newLogger(config)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// GetLogFilePath reports where the file writer logs, falling back to the
// conventional location next to the executable.
func GetLogFilePath() string {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()

	if l != nil {
		if path := l.GetLogFilePath(); path != "" {
			return path
		}
	}

	execPath, err := os.Executable()
	if err != nil {
		return filepath.Join("logs", logFileName)
	}
	return filepath.Join(filepath.Dir(execPath), "logs", logFileName)
}

func newLogger(config *LoggingConfig) (arbor.ILogger, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	logsDir := filepath.Join(filepath.Dir(execPath), "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	toFile := config.Output == "both" || config.Output == "file" || config.Output == ""
	toConsole := config.Output == "both" || config.Output == "console" || config.Output == ""

	l := arbor.NewLogger()
	if toFile {
		l = l.WithFileWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeFile,
			FileName:   filepath.Join(logsDir, logFileName),
			TimeFormat: "15:04:05",
			MaxSize:    int64(config.MaxSize * 1024 * 1024),
			MaxBackups: config.MaxBackups,
			TextOutput: true,
		})
	}
	if toConsole {
		l = l.WithConsoleWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeConsole,
			TimeFormat: "15:04:05",
			TextOutput: true,
		})
	}

	return l.WithLevelFromString(config.Level), nil
}

func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:      "info",
		Format:     "text",
		Output:     "both",
		MaxSize:    100,
		MaxBackups: 3,
	}
}
