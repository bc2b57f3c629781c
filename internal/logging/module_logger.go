package logging

import (
	"context"
	"strings"

	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

const (
	RootModule         = "ubiquo"
	TranslationsModule = "ubiquo.translations"
	QueriesModule      = "ubiquo.queries"
	StorageModule      = "ubiquo.storage"
)

const (
	fieldModule    = "module"
	fieldOperation = "operation"
	fieldLocales   = "locales"
	fieldGroups    = "groups"
)

// ModuleLogger returns the provider's logger for module annotated with a
// "module" field. A nil provider yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{fieldModule: module})
}

// TranslationsLogger returns the logger used by the locale resolver.
func TranslationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, TranslationsModule)
}

// QueriesLogger returns the logger used by the query handlers.
func QueriesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, QueriesModule)
}

// StorageLogger returns the logger used while opening and migrating storage.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, StorageModule)
}

// WithSelector annotates logger with the textual locale selector and the
// number of requested groups. Zero values are skipped.
func WithSelector(logger interfaces.Logger, locales string, groups int) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(locales); trimmed != "" {
		fields[fieldLocales] = trimmed
	}
	if groups > 0 {
		fields[fieldGroups] = groups
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
