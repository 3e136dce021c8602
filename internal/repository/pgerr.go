package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/pkg/zerror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// constraintErrors maps schema constraint names to the domain error raised
// when the database rejects an insert or update on them.
//
// The currency FK on sales_data is deliberately absent: a violation there
// means "unknown currency" on insert but "currency in use" on delete, so the
// two call sites map it themselves.
var constraintErrors = map[string]zerror.ZError{
	"currencies_code_key":                  apperr.DuplicateCurrencyErr,
	"sales_data_product_date_currency_key": apperr.DuplicateSalesDataErr,
	"user_engagement_product_date_key":     apperr.DuplicateEngagementErr,
	"customer_feedback_product_date_key":   apperr.DuplicateFeedbackErr,
	"sales_data_product_id_fkey":           apperr.ProductNotFoundErr,
	"user_engagement_product_id_fkey":      apperr.ProductNotFoundErr,
	"customer_feedback_product_id_fkey":    apperr.ProductNotFoundErr,
}

func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if pgErr.Code != pgUniqueViolation && pgErr.Code != pgForeignKeyViolation {
		return err
	}
	if zErr, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return zErr.WrapParent(err)
	}
	return err
}

func isConstraint(err error, name string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == name
}
