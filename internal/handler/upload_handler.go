package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lpk-cms-api/internal/dto"
	"github.com/noah-isme/lpk-cms-api/internal/service"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
	"github.com/noah-isme/lpk-cms-api/pkg/response"
)

type uploadService interface {
	Upload(ctx context.Context, file *service.UploadFile) (*dto.UploadResponse, error)
}

// UploadHandler accepts image uploads.
type UploadHandler struct {
	service uploadService
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(svc uploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// Upload godoc
// @Summary Upload an image
// @Description Accepts jpeg, png, webp or gif up to the configured size.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			response.Error(c, appErrors.ErrMissingFile)
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrMissingFile.Code, http.StatusBadRequest, "could not read uploaded file"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrMissingFile.Code, http.StatusBadRequest, "could not read uploaded file"))
		return
	}
	defer file.Close()

	result, err := h.service.Upload(c.Request.Context(), &service.UploadFile{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
