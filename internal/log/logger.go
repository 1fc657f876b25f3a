package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.New(os.Stdout).With().Timestamp().Logger()
	loggerLock sync.RWMutex
)

// Init configures the global logger. Development gets a console writer,
// everything else gets JSON on stdout.
func Init(development bool, levelStr string) {
	var output io.Writer = os.Stdout
	if development {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
	}
	InitWriter(output, levelStr)
}

// InitWriter points the global logger at w.
func InitWriter(w io.Writer, levelStr string) {
	loggerLock.Lock()
	logger = zerolog.New(w).
		Level(parseLogLevel(levelStr)).
		With().
		Timestamp().
		Logger()
	loggerLock.Unlock()
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	l := logger
	loggerLock.RUnlock()
	return &l
}

func Debug() *zerolog.Event { return current().Debug() }

func Info() *zerolog.Event { return current().Info() }

func Warn() *zerolog.Event { return current().Warn() }

func Error() *zerolog.Event { return current().Error() }

func Fatal() *zerolog.Event { return current().Fatal() }

// Logger returns the underlying zerolog.Logger for integrations.
func Logger() zerolog.Logger { return *current() }

type zerologWriter struct {
	logger zerolog.Logger
}

func (w zerologWriter) Write(p []byte) (n int, err error) {
	w.logger.Warn().Msg(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// StdErrorLogger returns a standard library logger that writes to zerolog,
// for http.Server.ErrorLog.
func StdErrorLogger() *stdlog.Logger {
	return stdlog.New(zerologWriter{logger: Logger()}, "", 0)
}
