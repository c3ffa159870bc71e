package handlers

import (
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
)

// Каталог публичен: токены не нужны, но куки пробрасываем как везде —
// бэкенд сам решает, что ему интересно.

// Products — GET /api/products. Строка запроса (пагинация, фильтры,
// сортировка) уходит на бэкенд без изменений.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Product.List(r.Context(), r.URL.RawQuery, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ProductByID — GET /api/products/{id}.
func (h *Handlers) ProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	resp, err := h.API.Product.ByID(r.Context(), id, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// Categories — GET /api/categories.
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Catalog.Categories(r.Context(), h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// ProductTypes — GET /api/product-types.
func (h *Handlers) ProductTypes(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Catalog.ProductTypes(r.Context(), h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// Promotions — GET /api/promotions.
func (h *Handlers) Promotions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.API.Catalog.Promotions(r.Context(), h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
