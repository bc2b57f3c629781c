package queries

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/wilhelser/ubiquo/internal/translations"
)

const (
	queryValidationCode   = "QUERY_VALIDATION_FAILED"
	queryInvalidSelector  = "QUERY_INVALID_SELECTOR"
	queryNotFoundCode     = "QUERY_RECORD_NOT_FOUND"
	queryContextCanceled  = "QUERY_CONTEXT_CANCELED"
	queryContextTimeout   = "QUERY_CONTEXT_TIMEOUT"
	queryContextErrorCode = "QUERY_CONTEXT_ERROR"
	queryExecuteFailed    = "QUERY_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "query validation failed").
		WithTextCode(queryValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "query cancelled").
			WithTextCode(queryContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "query deadline exceeded").
			WithTextCode(queryContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "query context error").
			WithTextCode(queryContextErrorCode)
	}
}

// wrapExecuteError categorises resolver failures. *translations.StoreError
// passes through untouched.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	var storeErr *translations.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, translations.ErrInvalidSelector):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid selector").
			WithTextCode(queryInvalidSelector)
	case errors.Is(err, translations.ErrNotFound):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "record not found").
			WithTextCode(queryNotFoundCode)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return wrapContextError(err)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "query execution failed").
			WithTextCode(queryExecuteFailed)
	}
}
