package interfaces

import "context"

// Logger is the leveled logging contract used across ubiquo. Its method set
// matches github.com/goliatone/go-logger so hosts can pass those loggers in
// directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent structured
// fields. WithFields returns a child; the receiver is left untouched.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
