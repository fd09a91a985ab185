package handler

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/clipforge/api/internal/service"
	"github.com/clipforge/api/internal/store"
	"github.com/clipforge/api/pkg/response"
)

const maxUploadSize = 500 * 1024 * 1024 // 500MB

type UploadHandler struct {
	service   *service.ProjectService
	validator *validator.Validate
}

func NewUploadHandler(svc *service.ProjectService, v *validator.Validate) *UploadHandler {
	return &UploadHandler{
		service:   svc,
		validator: v,
	}
}

// Source handles POST /api/upload/source
func (h *UploadHandler) Source(c *fiber.Ctx) error {
	projectID := c.FormValue("projectId")
	if projectID == "" {
		return response.ValidationError(c, "projectId is required", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.ValidationError(c, "File is required", nil)
	}

	if file.Size > maxUploadSize {
		return response.ValidationError(c, "File size exceeds 500MB limit", map[string]interface{}{
			"maxSize":  maxUploadSize,
			"fileSize": file.Size,
		})
	}

	contentType := file.Header.Get("Content-Type")
	validTypes := map[string]bool{
		"video/mp4":        true,
		"video/quicktime":  true,
		"video/x-matroska": true,
		"video/webm":       true,
	}
	if contentType != "" && !validTypes[contentType] {
		return response.ValidationError(c, "Unsupported video format", map[string]interface{}{
			"contentType": contentType,
		})
	}

	src, err := file.Open()
	if err != nil {
		return response.ServiceError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return response.ServiceError(c, "Failed to read uploaded file")
	}

	result, err := h.service.UploadSource(c.Context(), projectID, file.Filename, data)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			return response.NotFound(c, "Project not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Created(c, result)
}
