package models

import (
	"fmt"
	"log/slog"

	"platebook/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the error envelope returned to clients.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: resource + " not found",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal Server Error",
		Err:     err,
	}
}

// StatusForCode maps an AppError code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "NOT_FOUND":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the standardized error envelope. Internal causes
// are logged server-side and never serialized into the response.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{Status: "error"}

	if appErr, ok := err.(*AppError); ok {
		response.Message = appErr.Message
		response.Code = appErr.Code
		if appErr.Err != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "request error",
				slog.String("code", appErr.Code),
				slog.String("error", appErr.Err.Error()),
			)
		}
	} else {
		response.Message = "Internal Server Error"
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("error", err.Error()),
		)
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError maps the AppError's code to a status and responds.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if appErr, ok := err.(*AppError); ok {
		status = StatusForCode(appErr.Code)
	}
	return RespondWithError(c, status, err)
}
