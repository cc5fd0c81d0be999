package custom_error

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type UniqueViolationError struct {
	Constraint string
	message    string
}

type ForeignKeyViolationError struct {
	Constraint string
	message    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (constraint: %s)", e.message, e.Constraint)
}

func (e *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (constraint: %s)", e.message, e.Constraint)
}

// WrapDBError converts driver level constraint violations into typed errors.
// Anything else is returned unchanged.
func WrapDBError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return &UniqueViolationError{Constraint: pqErr.Constraint, message: pqErr.Message}
	case pqForeignKeyViolation:
		return &ForeignKeyViolationError{Constraint: pqErr.Constraint, message: pqErr.Message}
	default:
		return err
	}
}

// IsUniqueViolation also matches on message text because some paths
// (wrapped executor errors, proxies) lose the pq error type.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var uv *UniqueViolationError
	if errors.As(WrapDBError(err), &uv) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func IsForeignKeyViolation(err error) bool {
	var fk *ForeignKeyViolationError
	return errors.As(WrapDBError(err), &fk)
}
