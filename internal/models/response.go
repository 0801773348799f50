package models

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// APIResponse is the envelope of every API response.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    interface{}    `json:"data"`
	Errors  *ErrorResponse `json:"errors"`
	Message string         `json:"message,omitempty"`
}

// RespondWithData writes a successful response envelope.
func RespondWithData(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// RespondWithError writes a failed response envelope. The HTTP status is taken
// from the error; category is the short label naming the failed operation.
func RespondWithError(c *fiber.Ctx, category string, err error) error {
	response := APIResponse{Message: category}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.Errors = &ErrorResponse{
			Message: appErr.Message,
			Code:    appErr.Code,
		}
	} else {
		response.Errors = &ErrorResponse{
			Message: "Internal server error",
			Code:    CodeInternal,
		}
	}

	return c.Status(StatusOf(err)).JSON(response)
}
