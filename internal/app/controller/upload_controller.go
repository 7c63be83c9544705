package controller

import (
	"errors"
	"net/http"

	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/ecofoods/ecofoods-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	storage storage.Uploader
}

func NewUploadController(uploader storage.Uploader) *UploadController {
	return &UploadController{
		storage: uploader,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder" binding:"required"`
}

// GeneratePresignedURL issues a presigned PUT URL for an image
// POST /api/upload/presigned_url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	response, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	switch {
	case errors.Is(err, storage.ErrUnsupportedContentType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	case errors.Is(err, storage.ErrUnsupportedFolder):
		apperrors.RespondWithValidationError(c, map[string]string{"folder": "Must be one of: products, reviews, avatars, categories."})
		return
	case err != nil:
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       req.Folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"key": response.Key,
	})
	c.JSON(http.StatusOK, response)
}
