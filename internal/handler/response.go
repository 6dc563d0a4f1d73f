package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/domain"
	"github.com/bolsillo/bolsillo-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation = "https://bolsillo.app/errors/validation"
	ErrorTypeNotFound   = "https://bolsillo.app/errors/not-found"
	ErrorTypeConflict   = "https://bolsillo.app/errors/conflict"
	ErrorTypeInternal   = "https://bolsillo.app/errors/internal"
)

// dateLayout is the wire format of day-granular query and body dates
const dateLayout = time.DateOnly

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// handleError maps store and domain errors to problem details.
// notFound is the detail used for domain.ErrNotFound.
func handleError(c echo.Context, err error, notFound string) error {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: fieldErr.Field, Message: sentence(fieldErr.Err.Error())},
		})
	case errors.Is(err, domain.ErrInvalidDateRange):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "from", Message: "From must not be after to"},
		})
	case errors.Is(err, domain.ErrInvalidCategoryKind):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "kind", Message: "Kind must be one of: expense, income"},
		})
	case errors.Is(err, domain.ErrValidation):
		return NewValidationError(c, sentence(err.Error()), nil)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, notFound)
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Request failed")
	return NewInternalError(c, "An unexpected error occurred")
}

// handleRejected answers a rejected mutation with 409
func handleRejected(c echo.Context, reason error) error {
	if reason == nil {
		return NewConflictError(c, "Request conflicts with existing data")
	}
	if errors.Is(reason, domain.ErrCategoryNotFound) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category not found"},
		})
	}
	return NewConflictError(c, sentence(reason.Error()))
}

// mutationStatus picks the HTTP status for a non-rejected mutation
func mutationStatus(status domain.MutationStatus) int {
	if status == domain.StatusCreated {
		return http.StatusCreated
	}
	return http.StatusOK
}

// sentence upper-cases the first letter of an error message
func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// parseDate accepts YYYY-MM-DD (read as UTC) or RFC 3339
func parseDate(s string) (time.Time, error) {
	if t, err := util.ParseDay(s, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseRangeQuery reads the optional from/to query pair. Both or neither
// must be present.
func parseRangeQuery(c echo.Context) (*domain.DateRange, []ValidationError) {
	fromParam := c.QueryParam("from")
	toParam := c.QueryParam("to")
	if fromParam == "" && toParam == "" {
		return nil, nil
	}
	return parseRange(fromParam, toParam)
}

func parseRange(fromParam, toParam string) (*domain.DateRange, []ValidationError) {
	var errs []ValidationError
	var r domain.DateRange

	if fromParam == "" {
		errs = append(errs, ValidationError{Field: "from", Message: "From is required when to is set"})
	} else if from, err := parseDate(fromParam); err != nil {
		errs = append(errs, ValidationError{Field: "from", Message: "Must be in YYYY-MM-DD format"})
	} else {
		r.From = from
	}

	if toParam == "" {
		errs = append(errs, ValidationError{Field: "to", Message: "To is required when from is set"})
	} else if to, err := parseDate(toParam); err != nil {
		errs = append(errs, ValidationError{Field: "to", Message: "Must be in YYYY-MM-DD format"})
	} else {
		r.To = to
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &r, nil
}

// formatDay renders a day-granular date, or "" for the zero time
func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
