package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// pathID — числовой идентификатор из URL-параметра.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &apierrors.HTTPError{Status: http.StatusBadRequest, Message: "invalid " + name}
	}
	return id, nil
}

// AddToCart — POST /api/carts.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body models.AddToCartRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Cart.Add(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// UpdateCart — PUT /api/carts.
func (h *Handlers) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var body models.UpdateCartRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Cart.Update(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// DeleteCartItem — DELETE /api/carts/{id}.
func (h *Handlers) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Cart.Delete(r.Context(), id, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
