// Package logger writes the editor's structured log to a file. Nothing is
// printed to the terminal, which belongs to the screen.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kobzarvs/multisel/internal/config"
)

var (
	L       *zap.Logger
	S       *zap.SugaredLogger
	logFile *os.File
)

// Init opens the log file, truncating the previous run, and installs the
// global logger. The level is Info unless debug is set.
func Init(debug bool) error {
	logPath, err := logPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(logFile), level)

	L = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	// the helpers below add one frame between the caller and zap
	S = L.WithOptions(zap.AddCallerSkip(1)).Sugar()

	L.Info("logger initialized", zap.String("path", logPath), zap.Bool("debug", debug))
	return nil
}

// Close flushes and closes the log file.
func Close() {
	if L != nil {
		_ = L.Sync()
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Nop installs a logger that discards everything.
func Nop() {
	L = zap.NewNop()
	S = L.Sugar()
}

func logPath() (string, error) {
	if v := os.Getenv("MULTISEL_LOG_FILE"); v != "" {
		return v, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "multisel.log"), nil
}

// Component is a named logger. Its entries carry the name in the logger
// field, e.g. Component("selection").Warn(...) logs as "selection".
type Component string

func (c Component) sugar() *zap.SugaredLogger {
	if S == nil {
		return nil
	}
	return S.Named(string(c))
}

func (c Component) Debug(msg string, keysAndValues ...any) {
	if s := c.sugar(); s != nil {
		s.Debugw(msg, keysAndValues...)
	}
}

func (c Component) Info(msg string, keysAndValues ...any) {
	if s := c.sugar(); s != nil {
		s.Infow(msg, keysAndValues...)
	}
}

func (c Component) Warn(msg string, keysAndValues ...any) {
	if s := c.sugar(); s != nil {
		s.Warnw(msg, keysAndValues...)
	}
}

func (c Component) Error(msg string, keysAndValues ...any) {
	if s := c.sugar(); s != nil {
		s.Errorw(msg, keysAndValues...)
	}
}

// Package-level helpers log without a component name.

func Debug(msg string, keysAndValues ...any) {
	if S != nil {
		S.Debugw(msg, keysAndValues...)
	}
}

func Info(msg string, keysAndValues ...any) {
	if S != nil {
		S.Infow(msg, keysAndValues...)
	}
}

func Warn(msg string, keysAndValues ...any) {
	if S != nil {
		S.Warnw(msg, keysAndValues...)
	}
}

func Error(msg string, keysAndValues ...any) {
	if S != nil {
		S.Errorw(msg, keysAndValues...)
	}
}
