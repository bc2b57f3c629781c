package logging

import (
	"maps"

	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

// WithFields attaches fields when logger implements interfaces.FieldsLogger
// and returns logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// WithOperation tags logger with an "operation" field.
func WithOperation(logger interfaces.Logger, operation string) interfaces.Logger {
	if operation == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldOperation: operation})
}
