package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/pkg/zerror"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func errCode(t *testing.T, err error) string {
	t.Helper()

	var zErr zerror.ZError
	require.ErrorAs(t, err, &zErr)
	return zErr.Code()
}

func TestMapConstraintErr(t *testing.T) {
	t.Run("Should map unique violations to domain conflicts", func(t *testing.T) {
		err := mapConstraintErr(pgError(pgUniqueViolation, "currencies_code_key"))
		assert.Equal(t, apperr.DuplicateCurrencyErr.Code(), errCode(t, err))

		err = mapConstraintErr(pgError(pgUniqueViolation, "sales_data_product_date_currency_key"))
		assert.Equal(t, apperr.DuplicateSalesDataErr.Code(), errCode(t, err))

		err = mapConstraintErr(pgError(pgUniqueViolation, "customer_feedback_product_date_key"))
		assert.Equal(t, apperr.DuplicateFeedbackErr.Code(), errCode(t, err))
	})

	t.Run("Should map product FK violations to not found", func(t *testing.T) {
		for _, constraint := range []string{
			"sales_data_product_id_fkey",
			"user_engagement_product_id_fkey",
			"customer_feedback_product_id_fkey",
		} {
			err := mapConstraintErr(pgError(pgForeignKeyViolation, constraint))
			assert.Equal(t, apperr.ProductNotFoundErr.Code(), errCode(t, err), constraint)
		}
	})

	t.Run("Should keep the postgres error as parent", func(t *testing.T) {
		pgErr := pgError(pgUniqueViolation, "user_engagement_product_date_key")

		err := mapConstraintErr(pgErr)

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Same(t, pgErr, zErr.Parent())
	})

	t.Run("Should pass through unmapped constraints", func(t *testing.T) {
		pgErr := pgError(pgForeignKeyViolation, "sales_data_currency_id_fkey")
		assert.Equal(t, error(pgErr), mapConstraintErr(pgErr))
	})

	t.Run("Should pass through other postgres errors", func(t *testing.T) {
		pgErr := pgError("23514", "customer_feedback_rating_check")
		assert.Equal(t, error(pgErr), mapConstraintErr(pgErr))
	})

	t.Run("Should pass through non-postgres errors", func(t *testing.T) {
		plain := errors.New("connection reset")
		assert.Equal(t, plain, mapConstraintErr(plain))
	})
}

func TestIsConstraint(t *testing.T) {
	wrapped := fmt.Errorf("exec: %w", pgError(pgForeignKeyViolation, "sales_data_currency_id_fkey"))

	assert.True(t, isConstraint(wrapped, "sales_data_currency_id_fkey"))
	assert.False(t, isConstraint(wrapped, "currencies_code_key"))
	assert.False(t, isConstraint(errors.New("boom"), "currencies_code_key"))
}
