package utils

import (
	"strconv"
	"strings"

	"github.com/campusjobs/jobboard-api/database"
	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/gofiber/fiber/v2"
)

// MakeHTTPHandleFunc binds a handler that needs the storage layer. Errors
// are passed on to the app's error handler.
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler(c, store)
	}
}

// ParseID reads a positive integer route parameter.
func ParseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid ID", name+" must be a positive integer").
			WithHelp("Check the URL and try again")
	}
	return uint(id), nil
}

// ParseBody decodes the JSON request body into out.
func ParseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body", "The request body is not valid JSON for this endpoint").
			WithHelp("Send a JSON body with Content-Type: application/json")
	}
	return nil
}

// QueryUint reads an optional positive integer query parameter; absent
// yields 0.
func QueryUint(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.Validation("Invalid query parameter", name+" must be a positive integer")
	}
	return uint(v), nil
}

// QueryBool reads an optional boolean query parameter; absent yields nil.
func QueryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.Validation("Invalid query parameter", name+" must be true or false")
	}
	return &v, nil
}

// QueryPage reads the page and limit query parameters.
func QueryPage(c *fiber.Ctx) (page, limit int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 20)
}
