package custom_error

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindConflict          Kind = "conflict"
	KindAlreadyCompleted  Kind = "already_completed"
	KindValidation        Kind = "validation"
	KindPersistence       Kind = "persistence"
)

// AppError is the error every service returns to the HTTP boundary.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(available, requested int) *AppError {
	return &AppError{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock: available %d, requested %d", available, requested),
	}
}

func Conflict(format string, args ...any) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func AlreadyCompleted(format string, args ...any) *AppError {
	return &AppError{Kind: KindAlreadyCompleted, Message: fmt.Sprintf(format, args...)}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Persistence keeps the store message visible to the caller.
func Persistence(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindPersistence, Message: err.Error(), Err: err}
}

// KindOf reports the kind of err, KindPersistence for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
