package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/clipforge/api/internal/model"
	"github.com/clipforge/api/internal/pipeline"
	"github.com/clipforge/api/internal/service"
	"github.com/clipforge/api/internal/store"
	"github.com/clipforge/api/pkg/response"
)

type ClipsHandler struct {
	service   *service.ClipService
	validator *validator.Validate
}

func NewClipsHandler(svc *service.ClipService, v *validator.Validate) *ClipsHandler {
	return &ClipsHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/clips/generate
func (h *ClipsHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateClipsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}
	if req.Options != nil {
		if err := h.validator.Struct(req.Options); err != nil {
			return response.ValidationError(c, "Invalid options", formatValidationErrors(err))
		}
	}

	result, err := h.service.StartGeneration(c.Context(), &req)
	if err != nil {
		if errors.Is(err, pipeline.ErrAlreadyProcessing) {
			return response.AlreadyProcessing(c, "Project is already being processed")
		}
		if errors.Is(err, store.ErrProjectNotFound) {
			return response.NotFound(c, "Project not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/clips/status/:jobId
func (h *ClipsHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetStatus(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Result handles GET /api/clips/result/:jobId
func (h *ClipsHandler) Result(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetResult(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		if err.Error() == "job not completed" {
			return response.ValidationError(c, "Job not completed yet", nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Clip handles GET /api/clips/clip/:clipId
func (h *ClipsHandler) Clip(c *fiber.Ctx) error {
	clipID := c.Params("clipId")
	if clipID == "" {
		return response.ValidationError(c, "Clip ID is required", nil)
	}

	clip, err := h.service.GetClip(c.Context(), clipID)
	if err != nil {
		if errors.Is(err, store.ErrClipNotFound) {
			return response.NotFound(c, "Clip not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, clip)
}

// Cancel handles POST /api/clips/cancel/:jobId
func (h *ClipsHandler) Cancel(c *fiber.Ctx) error {
	return h.control(c, h.service.Cancel)
}

// Pause handles POST /api/clips/pause/:jobId
func (h *ClipsHandler) Pause(c *fiber.Ctx) error {
	return h.control(c, h.service.Pause)
}

// Resume handles POST /api/clips/resume/:jobId
func (h *ClipsHandler) Resume(c *fiber.Ctx) error {
	return h.control(c, h.service.Resume)
}

func (h *ClipsHandler) control(c *fiber.Ctx, op func(ctx context.Context, jobID string) (*model.ClipJobControlResponse, error)) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := op(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ValidationError(c, err.Error(), nil)
	}

	return response.OK(c, result)
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
