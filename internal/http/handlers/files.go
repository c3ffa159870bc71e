package handlers

import (
	"net/http"

	apierrors "github.com/nqoctai/bookstore-gateway/internal/errors"
)

// размер формы загрузки держим в разумных пределах
const maxUploadBytes = 10 << 20

// UploadFile — POST /api/files. Принимает multipart-форму (file, folder)
// и пересобирает её для бэкенда; Content-Type с boundary формирует движок.
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "invalid multipart form",
		})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.WriteError(w, r, &apierrors.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "file field is required",
		})
		return
	}
	defer func() { _ = file.Close() }()

	folder := r.FormValue("folder")
	resp, err := h.API.File.Upload(r.Context(), header.Filename, folder, file, h.proxyOpts(r)...)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	writeRaw(w, resp.Status, resp.Payload)
}
