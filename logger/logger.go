package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	entry *logrus.Entry
	mu    sync.Mutex
	debug bool // Flag to enable/disable debug logging
}

var (
	instance *Logger
	once     sync.Once
)

// contextKey type for storing context values
type contextKey string

// RequestIDKey is the context key holding the per-request id
const RequestIDKey contextKey = "request_id"

// GetLogger returns a singleton logger instance writing to stderr
func GetLogger() *Logger {
	once.Do(func() {
		instance = New(os.Stderr)
	})
	return instance
}

// New creates a standalone logger writing to out
func New(out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "02-01-06:15:04:05",
	})

	return &Logger{
		entry: logrus.NewEntry(base),
		debug: false, // Default to false, no debug logs
	}
}

func (l *Logger) fields(props []map[string]interface{}) logrus.Fields {
	if len(props) == 0 || props[0] == nil {
		return logrus.Fields{}
	}
	return logrus.Fields(props[0])
}

func (l *Logger) Info(msg string, props ...map[string]interface{}) {
	l.entry.WithFields(l.fields(props)).Info(msg)
}

func (l *Logger) Warn(msg string, props ...map[string]interface{}) {
	l.entry.WithFields(l.fields(props)).Warn(msg)
}

func (l *Logger) Error(msg string, props ...map[string]interface{}) {
	l.entry.WithFields(l.fields(props)).Error(msg)
}

func (l *Logger) Debug(msg string, props ...map[string]interface{}) {
	if !l.IsDebug() {
		return // Do not log if debug is disabled
	}
	l.entry.WithFields(l.fields(props)).Debug(msg)
}

// Fatal logs a single line and exits the process with status 1
func (l *Logger) Fatal(msg string, props ...map[string]interface{}) {
	l.entry.WithFields(l.fields(props)).Fatal(msg)
}

// EnableDebug enables debug logging
func (l *Logger) EnableDebug() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = true
	l.entry.Logger.SetLevel(logrus.DebugLevel)
}

// DisableDebug disables debug logging
func (l *Logger) DisableDebug() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = false
	l.entry.Logger.SetLevel(logrus.InfoLevel)
}

func (l *Logger) IsDebug() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

// WithContext returns a logger that adds the request id stored in ctx to every line
func (l *Logger) WithContext(ctx context.Context) *Logger {
	id := RequestID(ctx)
	if id == "" {
		return l
	}

	l.mu.Lock()
	debug := l.debug
	l.mu.Unlock()

	return &Logger{
		entry: l.entry.WithField(string(RequestIDKey), id),
		debug: debug,
	}
}

// WithRequestID stores a request id in the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "" if none
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
