package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taobot/taobot/constants"
)

var (
	userLogger     *log.Logger
	userWriter     io.Writer = os.Stdout
	internalLogger *zap.SugaredLogger
	internalLevel  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	loggerMu       sync.RWMutex
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

func init() {
	userLogger = log.New(userWriter, "", 0)
	if os.Getenv(constants.EnvDebug) != "" {
		internalLevel.SetLevel(zapcore.DebugLevel)
	}
	initLoggers(os.Stderr)
}

func initLoggers(w io.Writer) {
	// Internal logger: to stderr, console encoded, level shared via internalLevel
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		internalLevel,
	)
	loggerMu.Lock()
	internalLogger = zap.New(core).Sugar()
	loggerMu.Unlock()
}

func logger() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return internalLogger
}

func User(format string, v ...any) {
	loggerMu.RLock()
	l := userLogger
	loggerMu.RUnlock()
	l.Printf(format, v...)
}

func Info(format string, v ...any) {
	logger().Infof(format, v...)
}

func Warn(format string, v ...any) {
	logger().Warnf(format, v...)
}

func Error(format string, v ...any) {
	logger().Errorf(format, v...)
}

func Debug(format string, v ...any) {
	logger().Debugf(format, v...)
}

func SetUserOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	loggerMu.Lock()
	userWriter = w
	userLogger = log.New(userWriter, "", 0)
	loggerMu.Unlock()
}

func SetInternalOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	initLoggers(w)
}

// SetLevel changes the internal logger level. Unknown levels are rejected and
// leave the current level in place.
func SetLevel(level string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("unknown log level %q: %w", level, err)
	}
	internalLevel.SetLevel(l)
	return nil
}

// Level returns the current internal logger level name.
func Level() string {
	return internalLevel.Level().String()
}

// Errorf logs the error message and returns it as an error value.
func Errorf(format string, v ...any) error {
	err := fmt.Errorf(format, v...)
	logger().Errorf("%s", err)
	return err
}

// LoggerWriter adapts a printf-style log function to an io.Writer, one call
// per non-empty line.
type LoggerWriter struct {
	Fn     func(string, ...any)
	Prefix string
}

func (w *LoggerWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			if w.Prefix != "" {
				w.Fn("%s%s", w.Prefix, line)
			} else {
				w.Fn("%s", line)
			}
		}
	}
	return len(p), nil
}

// WithRequestID returns a new context with the given request ID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// RequestIDFromContext extracts the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

func withRequestID(ctx context.Context, fields []any) []any {
	if reqID, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", reqID)
	}
	return fields
}

// InfoCtx logs an info message with context, including request ID if present.
func InfoCtx(ctx context.Context, msg string, fields ...any) {
	logger().Infow(msg, withRequestID(ctx, fields)...)
}

// WarnCtx logs a warning message with context, including request ID if present.
func WarnCtx(ctx context.Context, msg string, fields ...any) {
	logger().Warnw(msg, withRequestID(ctx, fields)...)
}

// ErrorCtx logs an error message with context, including request ID if present.
func ErrorCtx(ctx context.Context, msg string, fields ...any) {
	logger().Errorw(msg, withRequestID(ctx, fields)...)
}

// DebugCtx logs a debug message with context, including request ID if present.
func DebugCtx(ctx context.Context, msg string, fields ...any) {
	logger().Debugw(msg, withRequestID(ctx, fields)...)
}
