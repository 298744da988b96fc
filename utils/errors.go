package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorKind classifies failures so handlers can pick a status code and message
type ErrorKind string

const (
	KindBadRequest    ErrorKind = "BAD_REQUEST"
	KindConfiguration ErrorKind = "CONFIGURATION"
	KindConflict      ErrorKind = "CONFLICT"
	KindIntegrity     ErrorKind = "INTEGRITY"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindInternal      ErrorKind = "INTERNAL"
)

// PostgreSQL SQLSTATE codes we react to
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// AppError is an error with a kind attached
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// BadRequest returns a BadRequest error with the given message
func BadRequest(format string, args ...any) *AppError {
	return &AppError{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a NotFound error with the given message
func NotFound(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Integrity returns an Integrity error with the given message
func Integrity(format string, args ...any) *AppError {
	return &AppError{Kind: KindIntegrity, Message: fmt.Sprintf(format, args...)}
}

// ErrConfiguration is returned when no database connection string is configured
var ErrConfiguration = &AppError{Kind: KindConfiguration, Message: "DATABASE_URL not configured"}

// KindOf reports the kind of err. Database errors that were never wrapped are
// classified on the fly; anything else is Internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ClassifyDBError(err)
}

// IsKind reports whether err is of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// ClassifyDBError maps a driver error to a kind. PostgreSQL errors are
// matched on SQLSTATE; sqlite only exposes text, so constraint names are
// matched on the message.
func ClassifyDBError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return KindConflict
		case pgForeignKeyViolation:
			return KindIntegrity
		}
		return KindInternal
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return KindIntegrity
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "foreign key"):
		return KindIntegrity
	case strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint"):
		return KindConflict
	}
	return KindInternal
}

// IsUniqueViolationOn reports whether err is a unique violation whose
// constraint or message mentions the given column
func IsUniqueViolationOn(err error, column string) bool {
	if ClassifyDBError(err) != KindConflict {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.Contains(pgErr.ConstraintName, column) || strings.Contains(pgErr.Detail, column)
	}
	return strings.Contains(err.Error(), column)
}
