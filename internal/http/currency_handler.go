package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/pkg/validator"
)

type currencyHandler struct {
	currencySvc service.CurrencyService
	validator   validator.Validator
	rp          *responder
}

func newCurrencyHandler(currencySvc service.CurrencyService, validator validator.Validator, rp *responder) *currencyHandler {
	return &currencyHandler{
		currencySvc: currencySvc,
		validator:   validator,
		rp:          rp,
	}
}

func (h *currencyHandler) RegisterRoutes(r chi.Router) {
	r.Route("/currencies", func(r chi.Router) {
		r.Get("/", h.listCurrencies)
		r.Post("/", h.createCurrency)
		r.Route("/{currencyID}", func(r chi.Router) {
			r.Get("/", h.getCurrency)
			r.Put("/", h.updateCurrency)
			r.Delete("/", h.deleteCurrency)
		})
	})
}

type currencyRequest struct {
	Code string `json:"code" validate:"required,len=3,iso4217"`
	Name string `json:"name" validate:"required,max=50"`
}

func (h *currencyHandler) listCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencySvc.ListCurrencies(r.Context())
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, currencies)
}

func (h *currencyHandler) createCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	currency, err := h.currencySvc.CreateCurrency(r.Context(), service.CreateCurrencyParams{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusCreated, currency)
}

func (h *currencyHandler) getCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "currencyID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	currency, err := h.currencySvc.GetCurrency(r.Context(), id)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, currency)
}

func (h *currencyHandler) updateCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "currencyID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	var req currencyRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	currency, err := h.currencySvc.UpdateCurrency(r.Context(), service.UpdateCurrencyParams{
		ID:   id,
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, currency)
}

func (h *currencyHandler) deleteCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "currencyID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	if err := h.currencySvc.DeleteCurrency(r.Context(), id); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
