package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"autoparts/internal/core/apperror"
)

func TestMapError(t *testing.T) {
	fk := fmt.Errorf("delete brand: %w", &pgconn.PgError{Code: "23503", ConstraintName: "products_brand_id_fkey"})
	err := MapError(fk, "brand", "b-1")
	assert.True(t, apperror.IsReferenceIntegrity(err))

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "currency_rates_code_key"}
	err = MapError(dup, "currency rate", "EUR")
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
	assert.True(t, IsUniqueViolation(dup))

	check := &pgconn.PgError{Code: "23514", Message: "quantity must be non-negative"}
	assert.True(t, apperror.HasCode(MapError(check, "product", "p"), apperror.CodeValidation))

	plain := errors.New("connection refused")
	assert.Same(t, plain, MapError(plain, "product", "p"))
	assert.False(t, IsUniqueViolation(plain))
}

func TestMapAbort_DeadlockBecomesConflict(t *testing.T) {
	deadlock := fmt.Errorf("lock product: %w", &pgconn.PgError{Code: "40P01"})
	err := mapAbort(deadlock)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
	assert.ErrorIs(t, err, deadlock)

	stock := apperror.NewInsufficientStock("p", 2, 1)
	assert.Same(t, stock, mapAbort(stock))

	plain := errors.New("connection refused")
	assert.Same(t, plain, mapAbort(plain))
}
