package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger provides leveled logging throughout the application.
// Info, warn and debug lines go to stdout, errors to stderr.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a Logger writing coloured console lines at the given
// level (debug, info, warn or error).
func NewLogger(level string) *Logger {
	w := splitWriter{
		out: consoleWriter(os.Stdout),
		err: consoleWriter(os.Stderr),
	}
	zl := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewTestLogger creates a Logger writing everything, uncoloured, to w.
func NewTestLogger(w io.Writer) *Logger {
	cw := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: timeFormat}
	return &Logger{zl: zerolog.New(cw).Level(zerolog.DebugLevel).With().Timestamp().Logger()}
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: timeFormat,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// splitWriter routes error-level events to err and everything else to out.
type splitWriter struct {
	out io.Writer
	err io.Writer
}

func (w splitWriter) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

func (w splitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel {
		return w.err.Write(p)
	}
	return w.out.Write(p)
}
