package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/devgate/internal/auth/domain"
	catalogdomain "github.com/smallbiznis/devgate/internal/catalog/domain"
	clientdomain "github.com/smallbiznis/devgate/internal/client/domain"
	dashboarddomain "github.com/smallbiznis/devgate/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/devgate/internal/invoice/domain"
	projectdomain "github.com/smallbiznis/devgate/internal/project/domain"
	timeentrydomain "github.com/smallbiznis/devgate/internal/timeentry/domain"
	userdomain "github.com/smallbiznis/devgate/internal/user/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts the last error a handler attached
// to the context into a JSON error response. Handlers never write
// error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if errors.Is(err, invoicedomain.ErrNoContact) {
		return http.StatusBadRequest, errorPayload{
			Type:    "no_contact",
			Message: "client has no contact address",
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "request",
					Code:    code,
					Message: code,
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, invoicedomain.ErrSendFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "transport_failure",
			Message: "invoice could not be delivered",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidPassword),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, projectdomain.ErrInvalidTitle),
		errors.Is(err, projectdomain.ErrInvalidRate),
		errors.Is(err, projectdomain.ErrInvalidDueDate),
		errors.Is(err, projectdomain.ErrInvalidID),
		errors.Is(err, timeentrydomain.ErrInvalidDate),
		errors.Is(err, timeentrydomain.ErrInvalidHours),
		errors.Is(err, timeentrydomain.ErrInvalidID),
		errors.Is(err, timeentrydomain.ErrEntryBilled),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidFee),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvoiced),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrInvalidSelection),
		errors.Is(err, invoicedomain.ErrMixedClients),
		errors.Is(err, invoicedomain.ErrAlreadyBilled),
		errors.Is(err, userdomain.ErrEmptyFile),
		errors.Is(err, userdomain.ErrInvalidFile):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, clientdomain.ErrInvalidUser),
		errors.Is(err, projectdomain.ErrInvalidUser),
		errors.Is(err, timeentrydomain.ErrInvalidUser),
		errors.Is(err, catalogdomain.ErrInvalidUser),
		errors.Is(err, invoicedomain.ErrInvalidUser),
		errors.Is(err, dashboarddomain.ErrInvalidUser),
		errors.Is(err, userdomain.ErrInvalidUser):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrClientNotFound),
		errors.Is(err, timeentrydomain.ErrNotFound),
		errors.Is(err, timeentrydomain.ErrProjectNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		return true
	default:
		return false
	}
}
