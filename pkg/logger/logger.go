package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

type Logger struct {
	level Level
	sl    *slog.Logger
}

// New returns a logger writing to stderr. Unknown levels mean info.
func New(levelStr string) *Logger {
	return NewWriter(os.Stderr, levelStr, false)
}

// NewWriter is New with an explicit destination; noColor strips the tint
// escape codes, e.g. for files and tests.
func NewWriter(w io.Writer, levelStr string, noColor bool) *Logger {
	lvl := parse(levelStr)
	h := tint.NewHandler(w, &tint.Options{
		Level:      toSlog(lvl),
		TimeFormat: "15:04:05.000",
		NoColor:    noColor,
	})
	return &Logger{level: lvl, sl: slog.New(h)}
}

func parse(s string) Level {
	switch Level(s) {
	case Debug, Info, Warn, Error:
		return Level(s)
	}
	return Info
}

func toSlog(l Level) slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (l *Logger) Level() Level { return l.level }

// Slog exposes the underlying handler chain for code that wants *slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.sl }

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...any) *Logger {
	return &Logger{level: l.level, sl: l.sl.With(fields...)}
}

func (l *Logger) Debug(msg string, fields ...any) { l.sl.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...any)  { l.sl.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...any)  { l.sl.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...any) { l.sl.Error(msg, fields...) }
