package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prodpulse/product-metrics/internal/service"
)

type metricsHandler struct {
	metricsSvc service.MetricsService
	rp         *responder
}

func newMetricsHandler(metricsSvc service.MetricsService, rp *responder) *metricsHandler {
	return &metricsHandler{
		metricsSvc: metricsSvc,
		rp:         rp,
	}
}

func (h *metricsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/metrics", func(r chi.Router) {
		r.Get("/products", h.listProductSummaries)
		r.Get("/products/{productID}", h.getProductTimeseries)
	})
}

func (h *metricsHandler) listProductSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.metricsSvc.ListProductSummaries(r.Context())
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, summaries)
}

func (h *metricsHandler) getProductTimeseries(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "productID")
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	timeseries, err := h.metricsSvc.GetProductTimeseries(r.Context(), id)
	if err != nil {
		h.rp.writeError(w, r, err)
		return
	}

	h.rp.writeJSON(w, r, http.StatusOK, timeseries)
}
