package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/repository"
	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/pkg/validator"
)

type productHandler struct {
	productSvc service.ProductService
	validator  validator.Validator
	rp         *responder
}

func newProductHandler(productSvc service.ProductService, validator validator.Validator, rp *responder) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		validator:  validator,
		rp:         rp,
	}
}

func (h *productHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Post("/activate", h.activateProducts)
		r.Post("/deactivate", h.deactivateProducts)
		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", h.getProduct)
			r.Put("/", h.updateProduct)
			r.Delete("/", h.deleteProduct)
		})
	})
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

type updateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active" validate:"required"`
}

type bulkProductRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type bulkProductResponse struct {
	Updated int64 `json:"updated"`
}

func (h *productHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	params := repository.ListProductsParams{
		NameContains: r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			h.rp.writeError(w, r, apperr.ValidationErr.WrapParent(err))
			return
		}
		params.IsActive = &isActive
	}

	products, err := h.productSvc.ListProducts(r.Context(), params)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, products)
}

func (h *productHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	// New products default to active, like the admin form.
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    isActive,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusCreated, product)
}

func (h *productHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "productID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "productID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	var req updateProductRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), service.UpdateProductParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    *req.IsActive,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, product)
}

func (h *productHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "productID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	if err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *productHandler) activateProducts(w http.ResponseWriter, r *http.Request) {
	h.setProductsActive(w, r, true)
}

func (h *productHandler) deactivateProducts(w http.ResponseWriter, r *http.Request) {
	h.setProductsActive(w, r, false)
}

func (h *productHandler) setProductsActive(w http.ResponseWriter, r *http.Request, active bool) {
	var req bulkProductRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	updated, err := h.productSvc.SetProductsActive(r.Context(), req.IDs, active)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, bulkProductResponse{Updated: updated})
}
