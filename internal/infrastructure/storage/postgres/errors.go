package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"autoparts/internal/core/apperror"
)

// PostgreSQL error codes the repositories translate.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeDeadlockDetected    = "40P01"
)

// MapError translates constraint violations into application errors.
// Anything else is returned unchanged.
func MapError(err error, entity string, entityID any) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeForeignKeyViolation:
		return apperror.NewReferenceIntegrity(entity, entityID).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case codeUniqueViolation:
		return apperror.NewDuplicate(entity, pgErr.ConstraintName, "").WithCause(err)
	case codeCheckViolation:
		return apperror.NewValidation(pgErr.Message).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case codeDeadlockDetected:
		return apperror.NewConflict("Concurrent update, please retry").WithCause(err)
	}
	return err
}

// mapAbort turns a transaction aborted by deadlock detection into a conflict
// the client can retry. Application errors and anything else pass through.
func mapAbort(err error) error {
	var pgErr *pgconn.PgError
	if apperror.IsAppError(err) || !errors.As(err, &pgErr) || pgErr.Code != codeDeadlockDetected {
		return err
	}
	return apperror.NewConflict("Concurrent update, please retry").WithCause(err)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
