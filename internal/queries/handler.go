package queries

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/wilhelser/ubiquo/internal/logging"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

const defaultHandlerTimeout = 5 * time.Second

// QueryFunc executes a validated query message.
type QueryFunc[T command.Message, R any] func(ctx context.Context, msg T) (R, error)

// Querier is implemented by every query handler.
type Querier[T command.Message, R any] interface {
	Query(ctx context.Context, msg T) (R, error)
}

// HandlerOption configures a Handler.
type HandlerOption[T command.Message, R any] func(*Handler[T, R])

// Handler runs a QueryFunc with message validation, a timeout, logging and
// error categorisation. Store failures are returned unchanged.
type Handler[T command.Message, R any] struct {
	exec      QueryFunc[T, R]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
}

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message, R any](fn QueryFunc[T, R], opts ...HandlerOption[T, R]) *Handler[T, R] {
	if fn == nil {
		panic("queries: handler function cannot be nil")
	}
	h := &Handler[T, R]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler[T, R]) Query(ctx context.Context, msg T) (R, error) {
	var zero R

	if err := command.ValidateMessage(msg); err != nil {
		return zero, wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return zero, wrapContextError(err)
	}

	logger := logging.WithOperation(h.logger.WithContext(ctx), h.operation)
	logger = logging.WithFields(logger, map[string]any{"query": command.GetMessageType(msg)})
	logger.Debug("query.start")

	result, err := h.exec(ctx, msg)
	if err != nil {
		logger.Error("query.failed", "error", err)
		return zero, wrapExecuteError(err)
	}
	if err := ctx.Err(); err != nil {
		logger.Error("query.context_error", "error", err)
		return zero, wrapContextError(err)
	}

	logger.Debug("query.success")
	return result, nil
}

// WithTimeout overrides the default timeout. Zero or negative disables it.
func WithTimeout[T command.Message, R any](timeout time.Duration) HandlerOption[T, R] {
	return func(h *Handler[T, R]) {
		if timeout < 0 {
			timeout = 0
		}
		h.timeout = timeout
	}
}

// WithLogger sets the handler logger. Nil restores the no-op logger.
func WithLogger[T command.Message, R any](logger interfaces.Logger) HandlerOption[T, R] {
	return func(h *Handler[T, R]) {
		if logger == nil {
			logger = logging.NoOp()
		}
		h.logger = logger
	}
}

// WithOperation names the operation in every log entry.
func WithOperation[T command.Message, R any](operation string) HandlerOption[T, R] {
	return func(h *Handler[T, R]) {
		h.operation = operation
	}
}

func (h *Handler[T, R]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}
