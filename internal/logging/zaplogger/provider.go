package zaplogger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wilhelser/ubiquo/internal/logging"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

// Config selects the zap preset and level.
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// Provider hands out named zap loggers.
type Provider struct {
	root *zap.Logger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds a zap logger: "json" (default) uses the production
// preset, "console" the development one.
func NewProvider(cfg Config) (*Provider, error) {
	var zcfg zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		zcfg = zap.NewProductionConfig()
	case "console", "pretty":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("logging: unsupported zap format %q", cfg.Format)
	}

	if name := strings.TrimSpace(cfg.Level); name != "" {
		switch strings.ToLower(name) {
		case "trace":
			name = "debug"
		case "warning":
			name = "warn"
		}
		level, err := zapcore.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("logging: unsupported zap level %q: %w", cfg.Level, err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	zcfg.DisableCaller = !cfg.AddSource

	root, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &Provider{root: root}, nil
}

// NewProviderFromLogger wraps an existing zap logger.
func NewProviderFromLogger(root *zap.Logger) *Provider {
	return &Provider{root: root}
}

// GetLogger returns a child logger named after the module.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	logger := p.root
	if name = strings.TrimSpace(name); name != "" {
		logger = logger.Named(name)
	}
	return &adapter{sugar: logger.Sugar()}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil || p.root == nil {
		return nil
	}
	return p.root.Sync()
}

type adapter struct {
	sugar *zap.SugaredLogger
}

var _ interfaces.FieldsLogger = (*adapter)(nil)

// zap has no trace level; trace entries are written at debug.
func (a *adapter) Trace(msg string, args ...any) { a.sugar.Debugw(msg, args...) }
func (a *adapter) Debug(msg string, args ...any) { a.sugar.Debugw(msg, args...) }
func (a *adapter) Info(msg string, args ...any)  { a.sugar.Infow(msg, args...) }
func (a *adapter) Warn(msg string, args ...any)  { a.sugar.Warnw(msg, args...) }
func (a *adapter) Error(msg string, args ...any) { a.sugar.Errorw(msg, args...) }

// Fatal logs at error level with fatal=true. It never exits the process.
func (a *adapter) Fatal(msg string, args ...any) {
	a.sugar.Errorw(msg, append(slices.Clone(args), "fatal", true)...)
}

func (a *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return a
	}
	args := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}
	return &adapter{sugar: a.sugar.With(args...)}
}

func (a *adapter) WithContext(ctx context.Context) interfaces.Logger {
	return a.WithFields(logging.ContextFields(ctx))
}
