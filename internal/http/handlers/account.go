package handlers

import (
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// UpdateAccount — PUT /api/account.
func (h *Handlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var body models.UpdateAccountRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Account.Update(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ChangePassword — PUT /api/account/password.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var body models.ChangePasswordRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Account.ChangePassword(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// UpdateCustomer — PUT /api/customers.
func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var body models.UpdateCustomerRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Customer.Update(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
