package handlers

import (
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

// requireSession — рекомендациям нужна сессия: без куки отвечаем 401 сами,
// не тратя поход на бэкенд.
func (h *Handlers) requireSession(w http.ResponseWriter, r *http.Request) bool {
	if h.cookieToken(r) == "" {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "not authenticated",
		})
		return false
	}
	return true
}

// Recommend — POST /api/recommend.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}
	var body models.RecommendRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Recommend.Recommend(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}

// RecommendFeedback — POST /api/recommend/feedback.
func (h *Handlers) RecommendFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.requireSession(w, r) {
		return
	}
	var body models.RecommendFeedbackRequest
	if err := decodeStrict(r, &body); err != nil {
		apierrors.WriteError(w, r, errInvalidBody())
		return
	}
	resp, err := h.API.Recommend.Feedback(r.Context(), body, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
