package response

import (
	"errors"

	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Response is the envelope for successful requests.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the envelope every failed request is rendered with.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Help   string `json:"help,omitempty"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// Success returns a 200 response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage returns a 200 response with a message
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created returns a 201 response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: "Resource created successfully",
		Data:    data,
	})
}

// NoContent returns a 204 response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Error writes the error envelope with an explicit status.
func Error(c *fiber.Ctx, status int, label, detail, help string) error {
	return c.Status(status).JSON(ErrorBody{
		Error:  label,
		Detail: detail,
		Help:   help,
	})
}

// Unauthorized returns a 401 response
func Unauthorized(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusUnauthorized, "Not authenticated", detail,
		"Log in and send the token as 'Authorization: Bearer <token>'")
}

// Forbidden returns a 403 response
func Forbidden(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusForbidden, "Forbidden", detail,
		"Your account does not have access to this resource")
}

// TooManyRequests returns a 429 response
func TooManyRequests(c *fiber.Ctx, detail string) error {
	return Error(c, fiber.StatusTooManyRequests, "Too many requests", detail, "Wait before trying again")
}

// Paginated returns a paginated response
func Paginated(c *fiber.Ctx, data interface{}, pagination PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// CalculatePagination calculates pagination metadata
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	page, limit = NormalizePage(page, limit)

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}

// NormalizePage clamps page to >= 1 and limit to 1..100 (default 20).
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// NewErrorHandler renders any error returned by a handler. Internal error
// causes are only included in the detail when exposeInternal is set.
func NewErrorHandler(exposeInternal bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			detail := appErr.Detail
			if appErr.Kind == apperror.KindInternal {
				log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
				detail = "An unexpected error occurred"
				if exposeInternal && appErr.Err != nil {
					detail = appErr.Err.Error()
				}
			}
			return Error(c, appErr.Kind.HTTPStatus(), appErr.Label, detail, appErr.Help)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return Error(c, fiberErr.Code, statusLabel(fiberErr.Code), fiberErr.Message, "")
		}

		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		detail := "An unexpected error occurred"
		if exposeInternal {
			detail = err.Error()
		}
		return Error(c, fiber.StatusInternalServerError, "Internal server error", detail, "")
	}
}

func statusLabel(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "Bad request"
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusMethodNotAllowed:
		return "Method not allowed"
	case fiber.StatusRequestEntityTooLarge:
		return "Request too large"
	case fiber.StatusTooManyRequests:
		return "Too many requests"
	default:
		if code >= 500 {
			return "Internal server error"
		}
		return "Request failed"
	}
}
