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

type userEngagementHandler struct {
	recordSvc service.RecordService
	validator validator.Validator
	rp        *responder
}

func newUserEngagementHandler(recordSvc service.RecordService, validator validator.Validator, rp *responder) *userEngagementHandler {
	return &userEngagementHandler{
		recordSvc: recordSvc,
		validator: validator,
		rp:        rp,
	}
}

func (h *userEngagementHandler) RegisterRoutes(r chi.Router) {
	r.Route("/engagement", func(r chi.Router) {
		r.Get("/", h.listUserEngagement)
		r.Post("/", h.createUserEngagement)
		r.Route("/{engagementID}", func(r chi.Router) {
			r.Get("/", h.getUserEngagement)
			r.Put("/", h.updateUserEngagement)
			r.Delete("/", h.deleteUserEngagement)
		})
	})
}

type createUserEngagementRequest struct {
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	ActiveUsers int     `json:"active_users" validate:"gte=0"`
	ChurnRate   float64 `json:"churn_rate" validate:"gte=0"`
}

type updateUserEngagementRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	ActiveUsers int     `json:"active_users" validate:"gte=0"`
	ChurnRate   float64 `json:"churn_rate" validate:"gte=0"`
}

// userEngagementResponse extends the stored record with the computed churn
// bucket of the admin list screen.
type userEngagementResponse struct {
	model.UserEngagement
	ChurnBucket display.ChurnBucket `json:"churn_bucket"`
}

func newUserEngagementResponse(record model.UserEngagement) userEngagementResponse {
	return userEngagementResponse{
		UserEngagement: record,
		ChurnBucket:    display.ChurnRateBucket(record.ChurnRate),
	}
}

func (h *userEngagementHandler) listUserEngagement(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRecordFilter(r)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	records, err := h.recordSvc.ListUserEngagement(r.Context(), repository.ListUserEngagementParams{
		ProductID: filter.ProductID,
		Date:      filter.Date,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	items := make([]userEngagementResponse, 0, len(records))
	for _, record := range records {
		items = append(items, newUserEngagementResponse(record))
	}

	h.rp.writeJSON(w, r, http.StatusOK, items)
}

func (h *userEngagementHandler) createUserEngagement(w http.ResponseWriter, r *http.Request) {
	var req createUserEngagementRequest
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

	record, err := h.recordSvc.CreateUserEngagement(r.Context(), repository.CreateUserEngagementParams{
		ProductID:   req.ProductID,
		Date:        date,
		ActiveUsers: req.ActiveUsers,
		ChurnRate:   req.ChurnRate,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusCreated, newUserEngagementResponse(record))
}

func (h *userEngagementHandler) getUserEngagement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "engagementID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	record, err := h.recordSvc.GetUserEngagement(r.Context(), id)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, newUserEngagementResponse(record))
}

func (h *userEngagementHandler) updateUserEngagement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "engagementID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	var req updateUserEngagementRequest
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

	record, err := h.recordSvc.UpdateUserEngagement(r.Context(), repository.UpdateUserEngagementParams{
		ID:          id,
		Date:        date,
		ActiveUsers: req.ActiveUsers,
		ChurnRate:   req.ChurnRate,
	})
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, newUserEngagementResponse(record))
}

func (h *userEngagementHandler) deleteUserEngagement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "engagementID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	if err := h.recordSvc.DeleteUserEngagement(r.Context(), id); err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
