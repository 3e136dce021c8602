package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/model"
)

// recordFilter carries the shared list filters of the metric-record
// endpoints.
type recordFilter struct {
	ProductID *int64
	Date      *model.Date
}

func parseRecordFilter(r *http.Request) (recordFilter, error) {
	var filter recordFilter

	if raw := r.URL.Query().Get("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return recordFilter{}, apperr.ValidationErr.WrapParent(fmt.Errorf("invalid product_id: %q", raw))
		}
		filter.ProductID = &id
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := model.ParseDate(raw)
		if err != nil {
			return recordFilter{}, apperr.ValidationErr.WrapParent(err)
		}
		filter.Date = &date
	}

	return filter, nil
}
