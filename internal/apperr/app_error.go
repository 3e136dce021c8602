package apperr

import "github.com/prodpulse/product-metrics/pkg/zerror"

var (
	ValidationErr = zerror.NewValidationFailed("VALIDATION_FAILED", "validation error")

	ProductNotFoundErr    = zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")
	CurrencyNotFoundErr   = zerror.NewNotFound("CURRENCY_NOT_FOUND", "currency not found")
	SalesDataNotFoundErr  = zerror.NewNotFound("SALES_DATA_NOT_FOUND", "sales data record not found")
	EngagementNotFoundErr = zerror.NewNotFound("ENGAGEMENT_NOT_FOUND", "user engagement record not found")
	FeedbackNotFoundErr   = zerror.NewNotFound("FEEDBACK_NOT_FOUND", "customer feedback record not found")

	DuplicateCurrencyErr   = zerror.NewConflict("CURRENCY_EXISTS", "currency code already exists")
	DuplicateSalesDataErr  = zerror.NewConflict("SALES_DATA_EXISTS", "sales data already recorded for this product, date and currency")
	DuplicateEngagementErr = zerror.NewConflict("ENGAGEMENT_EXISTS", "user engagement already recorded for this product and date")
	DuplicateFeedbackErr   = zerror.NewConflict("FEEDBACK_EXISTS", "customer feedback already recorded for this product and date")

	// CurrencyInUseErr is returned when deleting a currency still referenced
	// by sales rows. Currency references do not cascade.
	CurrencyInUseErr = zerror.NewConflict("CURRENCY_IN_USE", "currency is referenced by sales data")
)
