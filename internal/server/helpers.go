package server

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"platebook/internal/models"
	"platebook/internal/service"
)

// SuccessResponse is the success envelope returned to clients. Results
// carries the item count on list endpoints.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondSuccess(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func respondList(c *fiber.Ctx, data interface{}, count int) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{
		Status:  "success",
		Results: &count,
		Data:    data,
	})
}

// parseIDParam reads a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// callerID returns the authenticated user's id set by AuthRequired.
func callerID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// formImage reads and normalizes an optional image file from a
// multipart form field. Returns (nil, nil) when the field is absent.
func (s *Server) formImage(c *fiber.Ctx, field string) (*service.ProcessedImage, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return s.processImageUpload(fileHeader)
}

func (s *Server) processImageUpload(fileHeader *multipart.FileHeader) (*service.ProcessedImage, error) {
	maxSize := int64(s.config.ImageMaxUploadSizeMB) * 1024 * 1024
	if maxSize > 0 && fileHeader.Size > maxSize {
		return nil, models.NewValidationError("Image exceeds the maximum upload size")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewValidationError("Could not read uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewValidationError("Could not read uploaded file")
	}

	return service.ProcessImage(content, fileHeader.Header.Get("Content-Type"))
}
