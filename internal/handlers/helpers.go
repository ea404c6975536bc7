package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "ledger/internal/errors"
	"ledger/internal/middleware"
	ledgervalidator "ledger/internal/validator"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Constraint string `json:"constraint,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// IDResponse is the payload of a single delete.
type IDResponse struct {
	ID string `json:"id"`
}

// IDsRequest is the payload of bulk deletes.
type IDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// respondWithError attaches err to the request and aborts the chain.
// middleware.ErrorHandler renders it: AppErrors with their status, code, and
// message, anything else as a generic internal error.
func respondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindJSON binds and validates the request body, converting failures into an
// INVALID_INPUT error naming the offending field.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err))
	}
	return nil
}

func bindingMessage(err error) string {
	var (
		sliceErrs      binding.SliceValidationError
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)
	switch {
	case errors.As(err, &sliceErrs):
		msgs := make([]string, 0, len(sliceErrs))
		for _, e := range sliceErrs {
			if e != nil {
				msgs = append(msgs, bindingMessage(e))
			}
		}
		return strings.Join(msgs, "; ")
	case errors.As(err, &validationErrs):
		msgs := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("%s has an invalid type", typeErr.Field)
		}
		return "request body has an invalid type"
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return "request body must be valid JSON"
	default:
		return err.Error()
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "date_ymd":
		return field + " must be a date formatted as yyyy-MM-dd"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// fieldPath drops the top-level struct name from the validator namespace,
// e.g. "TransactionRequest.accountId" becomes "accountId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// parseDateQuery parses an optional yyyy-MM-dd query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(ledgervalidator.DateLayout, raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be a date formatted as yyyy-MM-dd")
	}
	return &d, nil
}

// optionalQuery returns a pointer to a non-empty query parameter.
func optionalQuery(c *gin.Context, name string) *string {
	if v := strings.TrimSpace(c.Query(name)); v != "" {
		return &v
	}
	return nil
}

// formatDate renders a calendar date as yyyy-MM-dd.
func formatDate(t time.Time) string {
	return t.UTC().Format(ledgervalidator.DateLayout)
}

// IDEnvelope wraps a single deleted id.
type IDEnvelope struct {
	Data IDResponse `json:"data"`
}

// IDListEnvelope wraps the ids affected by a bulk operation.
type IDListEnvelope struct {
	Data []IDResponse `json:"data"`
}

func toIDResponses(ids []string) []IDResponse {
	out := make([]IDResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, IDResponse{ID: id})
	}
	return out
}
