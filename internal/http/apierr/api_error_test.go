package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/http/apierr"
	"github.com/prodpulse/product-metrics/pkg/validator"
	"github.com/prodpulse/product-metrics/pkg/zerror"
)

func TestNew(t *testing.T) {
	t.Run("Should map domain errors to their status and code", func(t *testing.T) {
		resp := apierr.New(apperr.ProductNotFoundErr)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "PRODUCT_NOT_FOUND", resp.Code)
		assert.Equal(t, "product not found", resp.Message)
	})

	t.Run("Should unwrap wrapped domain errors", func(t *testing.T) {
		wrapped := fmt.Errorf("service layer: %w", apperr.DuplicateCurrencyErr)

		resp := apierr.New(wrapped)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CURRENCY_EXISTS", resp.Code)
	})

	t.Run("Should map validation errors to field details", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		type request struct {
			Code string `json:"code" validate:"required,len=3"`
			Name string `json:"name" validate:"required"`
		}
		vErr := v.Validate(request{Code: "TOOLONG"})
		require.Error(t, vErr)

		resp := apierr.New(vErr)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "validationError", resp.Code)
		require.Len(t, resp.Details, 2)
		assert.Equal(t, "Code", resp.Details[0].Field)
		assert.Equal(t, "must be exactly 3 characters long", resp.Details[0].Message)
		assert.Equal(t, "Name", resp.Details[1].Field)
		assert.Equal(t, "field is required", resp.Details[1].Message)
	})

	t.Run("Should hide unknown errors behind a 500", func(t *testing.T) {
		resp := apierr.New(errors.New("pgx: connection refused"))

		assert.Equal(t, apierr.InternalServerErr, resp)
	})
}

func TestZErrorStatusToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, apierr.ZErrorStatusToHTTPStatus(zerror.StatusNotFound))
	assert.Equal(t, http.StatusConflict, apierr.ZErrorStatusToHTTPStatus(zerror.StatusConflict))
	assert.Equal(t, http.StatusBadRequest, apierr.ZErrorStatusToHTTPStatus(zerror.StatusValidationFailed))
	assert.Equal(t, http.StatusInternalServerError, apierr.ZErrorStatusToHTTPStatus(zerror.StatusUnknown))
	assert.Equal(t, http.StatusGatewayTimeout, apierr.ZErrorStatusToHTTPStatus(zerror.StatusTimeout))
}
