package logger

import (
	"io"
)

// SetupLogger installs the process default logger and returns it. Unknown
// levels fall back to info.
func SetupLogger(output io.Writer, logLevel LogLevel, logJSON, logSource bool) Logger {
	switch logLevel {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, DisabledLevel:
	default:
		logLevel = InfoLevel
	}
	cfg := &Config{
		Level:      logLevel,
		Output:     output,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	}
	Init(cfg)
	return NewLogger(cfg)
}
