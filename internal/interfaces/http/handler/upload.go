package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/application/media"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// MediaService is the upload API the handler drives
type MediaService interface {
	Upload(ctx context.Context, uploadType media.UploadType, isAdmin bool, files []media.File) ([]media.UploadedFile, error)
	Delete(ctx context.Context, key string) error
}

// UploadCounter counts stored files per upload type
type UploadCounter interface {
	RecordUploads(uploadType string, n int)
}

type noUploadCounter struct{}

func (noUploadCounter) RecordUploads(string, int) {}

// UploadHandler handles multipart uploads
type UploadHandler struct {
	BaseHandler
	media   MediaService
	counter UploadCounter
}

// NewUploadHandler creates a new UploadHandler. counter may be nil.
func NewUploadHandler(base BaseHandler, media MediaService, counter UploadCounter) *UploadHandler {
	if counter == nil {
		counter = noUploadCounter{}
	}
	return &UploadHandler{BaseHandler: base, media: media, counter: counter}
}

// Upload godoc
// @Summary      Upload files
// @Description  Multipart field "files" (repeatable). products and deliveries are admin only.
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        type  path     string true "products, avatars, deliveries, messages or general"
// @Param        files formData file   true "Files to upload"
// @Success      201 {object} APIResponse[[]media.UploadedFile]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /upload/{type} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.CodeBodyTooLarge, "Upload exceeds maximum allowed size")
			return
		}
		h.Error(c, http.StatusBadRequest, "INVALID_FILE", "Expected a multipart form with files")
		return
	}

	headers := append(form.File["files"], form.File["file"]...)
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, media.File{Name: fh.Filename, Size: fh.Size, Open: opener(fh)})
	}

	uploadType := media.UploadType(c.Param("type"))
	stored, err := h.media.Upload(c.Request.Context(), uploadType, middleware.IsAdmin(c), files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.counter.RecordUploads(string(uploadType), len(stored))
	h.Created(c, "Files uploaded", stored)
}

func opener(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

// Delete godoc
// @Summary      Delete an uploaded file
// @Tags         upload
// @Produce      json
// @Param        key query string true "Object key, e.g. products/2026/01/<uuid>.png"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /upload [delete]
func (h *UploadHandler) Delete(c *gin.Context) {
	if err := h.media.Delete(c.Request.Context(), c.Query("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "File deleted", nil)
}
