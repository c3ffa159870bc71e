package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
)

const pathFiles = "api/v1/files"

// FileAPI — загрузка файлов (аватары, вложения чата).
type FileAPI struct {
	cl *backend.Client
}

// Upload собирает multipart-форму (file + folder) и отправляет на бэкенд.
// Content-Type с boundary выставляет multipart.Writer; движок его не трогает.
func (f *FileAPI) Upload(ctx context.Context, fileName, folder string, file io.Reader, opts ...backend.Option) (*backend.Response, error) {
	const op = "internal/api/FileAPI.Upload"

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("%s: copy file: %w", op, err)
	}
	if err := mw.WriteField("folder", folder); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	body := &backend.Multipart{
		ContentType: mw.FormDataContentType(),
		Body:        buf.Bytes(),
	}

	return f.cl.Post(ctx, pathFiles, body, opts...)
}
