package handlers

import (
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// CreateOrder — POST /api/orders.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body models.CreateOrderRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Order.Create(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// OrderHistory — GET /api/orders/history/{id} (id — аккаунт покупателя).
func (h *Handlers) OrderHistory(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Order.History(r.Context(), accountID, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// UpdateOrderStatus — PUT /api/orders.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body models.UpdateOrderRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Order.UpdateStatus(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
