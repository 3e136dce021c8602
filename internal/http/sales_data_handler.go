package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/display"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/pkg/validator"
)

type salesDataHandler struct {
	recordSvc service.RecordService
	validator validator.Validator
	rp        *responder
}

func newSalesDataHandler(recordSvc service.RecordService, validator validator.Validator, rp *responder) *salesDataHandler {
	return &salesDataHandler{
		recordSvc: recordSvc,
		validator: validator,
		rp:        rp,
	}
}

func (h *salesDataHandler) RegisterRoutes(r chi.Router) {
	r.Route("/sales-data", func(r chi.Router) {
		r.Get("/", h.listSalesData)
		r.Post("/", h.createSalesData)
		r.Route("/{salesDataID}", func(r chi.Router) {
			r.Get("/", h.getSalesData)
			r.Put("/", h.updateSalesData)
			r.Delete("/", h.deleteSalesData)
		})
	})
}

type createSalesDataRequest struct {
	ProductID  int64           `json:"product_id" validate:"required,gt=0"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	UnitsSold  int             `json:"units_sold" validate:"gte=0"`
	Revenue    decimal.Decimal `json:"revenue" validate:"-"`
	CurrencyID int64           `json:"currency_id" validate:"required,gt=0"`
}

type updateSalesDataRequest struct {
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	UnitsSold  int             `json:"units_sold" validate:"gte=0"`
	Revenue    decimal.Decimal `json:"revenue" validate:"-"`
	CurrencyID int64           `json:"currency_id" validate:"required,gt=0"`
}

// salesDataResponse extends the stored record with the computed
// revenue-per-unit column of the admin list screen.
type salesDataResponse struct {
	model.SalesData
	RevenuePerUnit *decimal.Decimal `json:"revenue_per_unit"`
}

func newSalesDataResponse(record model.SalesData) salesDataResponse {
	res := salesDataResponse{SalesData: record}
	if perUnit, ok := display.RevenuePerUnit(record.Revenue, record.UnitsSold); ok {
		res.RevenuePerUnit = &perUnit
	}
	return res
}

func validateRevenue(revenue decimal.Decimal) error {
	if revenue.IsNegative() {
		return apperr.ValidationErr.WrapParent(errors.New("revenue must be non-negative"))
	}
	return nil
}

func (h *salesDataHandler) listSalesData(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	records, err := h.recordSvc.ListSalesData(r.Context(), repository.ListSalesDataParams{
		ProductID: filter.ProductID,
		Date:      filter.Date,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	items := make([]salesDataResponse, 0, len(records))
	for _, record := range records {
		items = append(items, newSalesDataResponse(record))
	}

	h.rp.writeJSON(w, r, http.StatusOK, items)
}

func (h *salesDataHandler) createSalesData(w http.ResponseWriter, r *http.Request) {
	var req createSalesDataRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := validateRevenue(req.Revenue); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.rp.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	record, err := h.recordSvc.CreateSalesData(r.Context(), repository.CreateSalesDataParams{
		ProductID:  req.ProductID,
		Date:       date,
		UnitsSold:  req.UnitsSold,
		Revenue:    req.Revenue,
		CurrencyID: req.CurrencyID,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusCreated, newSalesDataResponse(record))
}

func (h *salesDataHandler) getSalesData(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "salesDataID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	record, err := h.recordSvc.GetSalesData(r.Context(), id)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, newSalesDataResponse(record))
}

func (h *salesDataHandler) updateSalesData(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "salesDataID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	var req updateSalesDataRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := validateRevenue(req.Revenue); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.rp.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	record, err := h.recordSvc.UpdateSalesData(r.Context(), repository.UpdateSalesDataParams{
		ID:         id,
		Date:       date,
		UnitsSold:  req.UnitsSold,
		Revenue:    req.Revenue,
		CurrencyID: req.CurrencyID,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, newSalesDataResponse(record))
}

func (h *salesDataHandler) deleteSalesData(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "salesDataID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	if err := h.recordSvc.DeleteSalesData(r.Context(), id); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
