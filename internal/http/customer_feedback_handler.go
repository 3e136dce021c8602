package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/display"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/pkg/validator"
)

type customerFeedbackHandler struct {
	recordSvc service.RecordService
	validator validator.Validator
	rp        *responder
}

func newCustomerFeedbackHandler(recordSvc service.RecordService, validator validator.Validator, rp *responder) *customerFeedbackHandler {
	return &customerFeedbackHandler{
		recordSvc: recordSvc,
		validator: validator,
		rp:        rp,
	}
}

func (h *customerFeedbackHandler) RegisterRoutes(r chi.Router) {
	r.Route("/feedback", func(r chi.Router) {
		r.Get("/", h.listCustomerFeedback)
		r.Post("/", h.createCustomerFeedback)
		r.Route("/{feedbackID}", func(r chi.Router) {
			r.Get("/", h.getCustomerFeedback)
			r.Put("/", h.updateCustomerFeedback)
			r.Delete("/", h.deleteCustomerFeedback)
		})
	})
}

type createCustomerFeedbackRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Rating    float64 `json:"rating" validate:"gte=0,lte=5"`
	Feedback  *string `json:"feedback" validate:"omitempty,max=4000"`
}

type updateCustomerFeedbackRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Rating   float64 `json:"rating" validate:"gte=0,lte=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=4000"`
}

// customerFeedbackResponse extends the stored record with the computed
// star-rating and preview columns of the admin list screen.
type customerFeedbackResponse struct {
	model.CustomerFeedback
	RatingStars     int    `json:"rating_stars"`
	FeedbackPreview string `json:"feedback_preview"`
}

func newCustomerFeedbackResponse(record model.CustomerFeedback) customerFeedbackResponse {
	return customerFeedbackResponse{
		CustomerFeedback: record,
		RatingStars:      display.RatingStars(record.Rating),
		FeedbackPreview:  display.FeedbackPreview(record.Feedback),
	}
}

func (h *customerFeedbackHandler) listCustomerFeedback(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	records, err := h.recordSvc.ListCustomerFeedback(r.Context(), repository.ListCustomerFeedbackParams{
		ProductID: filter.ProductID,
		Date:      filter.Date,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	items := make([]customerFeedbackResponse, 0, len(records))
	for _, record := range records {
		items = append(items, newCustomerFeedbackResponse(record))
	}

	h.rp.writeJSON(w, r, http.StatusOK, items)
}

func (h *customerFeedbackHandler) createCustomerFeedback(w http.ResponseWriter, r *http.Request) {
	var req createCustomerFeedbackRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.rp.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	record, err := h.recordSvc.CreateCustomerFeedback(r.Context(), repository.CreateCustomerFeedbackParams{
		ProductID: req.ProductID,
		Date:      date,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusCreated, newCustomerFeedbackResponse(record))
}

func (h *customerFeedbackHandler) getCustomerFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "feedbackID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	record, err := h.recordSvc.GetCustomerFeedback(r.Context(), id)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, newCustomerFeedbackResponse(record))
}

func (h *customerFeedbackHandler) updateCustomerFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "feedbackID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	var req updateCustomerFeedbackRequest
	if err := decodeBody(r, &req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		h.rp.writeError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	record, err := h.recordSvc.UpdateCustomerFeedback(r.Context(), repository.UpdateCustomerFeedbackParams{
		ID:       id,
		Date:     date,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, newCustomerFeedbackResponse(record))
}

func (h *customerFeedbackHandler) deleteCustomerFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "feedbackID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	if err := h.recordSvc.DeleteCustomerFeedback(r.Context(), id); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
