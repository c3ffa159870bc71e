package handlers

import (
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
)

// TopProductsSold — GET /api/dashboard/get-top5-products-sold.
// Публичный блок главной страницы: сессия не требуется.
func (h *Handlers) TopProductsSold(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Dashboard.TopProductsSold(r.Context(), h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
