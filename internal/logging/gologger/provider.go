package gologger

import (
	"context"
	"fmt"
	"maps"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/wilhelser/ubiquo/internal/logging"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

// Config mirrors the [logging] settings consumed by the go-logger backend.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Provider exposes go-logger child loggers through interfaces.LoggerProvider.
type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// NewProvider builds the root go-logger instance described by cfg.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option

	levelName := strings.ToLower(strings.TrimSpace(cfg.Level))
	if levelName != "" {
		level, ok := levels[levelName]
		if !ok {
			return nil, fmt.Errorf("logging: unsupported go-logger level %q", cfg.Level)
		}
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := trimAll(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns a named child of the root logger. A blank name returns
// the root itself.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

var _ interfaces.FieldsLogger = (*adapter)(nil)

func (a *adapter) Trace(msg string, args ...any) { a.inner.Trace(msg, args...) }
func (a *adapter) Debug(msg string, args ...any) { a.inner.Debug(msg, args...) }
func (a *adapter) Info(msg string, args ...any)  { a.inner.Info(msg, args...) }
func (a *adapter) Warn(msg string, args ...any)  { a.inner.Warn(msg, args...) }
func (a *adapter) Error(msg string, args ...any) { a.inner.Error(msg, args...) }
func (a *adapter) Fatal(msg string, args ...any) { a.inner.Fatal(msg, args...) }

// WithFields is a no-op when the wrapped logger cannot carry fields.
func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	with, ok := a.inner.(glog.FieldsLogger)
	if !ok {
		return a
	}
	return wrap(with.WithFields(maps.Clone(fields)))
}

// WithContext forwards ctx and folds any fields stored with
// logging.ContextWithFields into the child logger.
func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return a
	}
	child := wrap(a.inner.WithContext(ctx))
	return logging.WithFields(child, logging.ContextFields(ctx))
}

func trimAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
