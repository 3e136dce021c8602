package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prodpulse/product-metrics/internal/admin"
)

type adminHandler struct {
	rp *responder
}

func newAdminHandler(rp *responder) *adminHandler {
	return &adminHandler{rp: rp}
}

func (h *adminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/descriptors", h.listDescriptors)
}

func (h *adminHandler) listDescriptors(w http.ResponseWriter, r *http.Request) {
	h.rp.writeJSON(w, r, http.StatusOK, admin.Descriptors())
}
