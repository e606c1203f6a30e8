package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusjobs/jobboard-api/utils/apperror"
	"github.com/campusjobs/jobboard-api/utils/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Page selects a window of a listing. Zero values mean the defaults.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalized() (page, limit, offset int) {
	page, limit = response.NormalizePage(p.Page, p.Limit)
	return page, limit, (page - 1) * limit
}

// storeErr wraps an unexpected store failure.
func storeErr(err error, label string) error {
	return apperror.Internal(err, label)
}

// notFoundOr maps gorm.ErrRecordNotFound to a not found error for what,
// and anything else to an internal error.
func notFoundOr(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(what+" not found", fmt.Sprintf("%s with ID %v does not exist", what, id)).
			WithHelp("Check the ID and try again")
	}
	return storeErr(err, "Failed to load "+strings.ToLower(what))
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// likePattern builds a lowercased LIKE pattern matching s anywhere, with
// wildcards in s escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// parseDate parses an optional YYYY-MM-DD field.
func parseDate(field string, value *string) (*datatypes.Date, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, apperror.Validation("Invalid request",
			fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	d := datatypes.Date(t)
	return &d, nil
}

func forbidden(detail string) error {
	return apperror.Forbidden("Forbidden", detail).
		WithHelp("Your account does not have access to this resource")
}
