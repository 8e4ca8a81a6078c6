package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"csei-backend/internal/adapter/middleware"
	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/prospect"
	"csei-backend/internal/infrastructure/cache"
	"csei-backend/internal/infrastructure/observability"
	"csei-backend/pkg/fields"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const maxJSONBody = 1 << 20

var errInvalidBody = errors.New("invalid body")

// bindRequired decodes a JSON object body into dst. It first reports every
// required key that is absent or empty, then applies the validate tags.
func bindRequired(c echo.Context, dst any, required []string) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxJSONBody))
	if err != nil {
		return errInvalidBody
	}
	record := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &record); err != nil {
			return errInvalidBody
		}
	}
	if err := fields.Check(record, required); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errInvalidBody
	}
	return c.Validate(dst)
}

type statusError struct {
	code int
	msg  string
}

// classify maps an error from any layer to its HTTP status and public
// message. Anything unknown is a 500 with the message hidden.
func classify(err error) statusError {
	var missing *fields.MissingError
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &missing):
		return statusError{http.StatusBadRequest, missing.Error()}
	case errors.Is(err, errInvalidBody):
		return statusError{http.StatusBadRequest, errInvalidBody.Error()}
	case errors.As(err, &ve):
		return statusError{http.StatusUnprocessableEntity, "validation failed"}
	case errors.Is(err, prospect.ErrInvalidStatus),
		errors.Is(err, prospect.ErrInvalidInput),
		errors.Is(err, loan.ErrInvalidStatus),
		errors.Is(err, loan.ErrInvalidInput),
		errors.Is(err, loan.ErrInvalidGuarantor),
		errors.Is(err, loan.ErrInvalidDocument):
		return statusError{http.StatusBadRequest, err.Error()}
	case errors.Is(err, loan.ErrForbidden):
		return statusError{http.StatusForbidden, err.Error()}
	case errors.Is(err, prospect.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, loan.ErrApplicantNotFound),
		errors.Is(err, loan.ErrNoDocument):
		return statusError{http.StatusNotFound, err.Error()}
	case errors.Is(err, prospect.ErrAlreadyDecided),
		errors.Is(err, loan.ErrPendingApplication),
		errors.Is(err, loan.ErrAlreadyDecided),
		errors.Is(err, cache.ErrLockHeld):
		return statusError{http.StatusConflict, err.Error()}
	default:
		return statusError{http.StatusInternalServerError, "internal server error"}
	}
}

// respondError writes the error payload for err.
func respondError(c echo.Context, err error) error {
	se := classify(err)
	resp := ErrorResponse{Error: se.msg}
	if se.code == http.StatusUnprocessableEntity {
		resp.Details = ToFieldErrors(err)
	}
	if se.code >= http.StatusInternalServerError {
		observability.Logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}
	return c.JSON(se.code, resp)
}

func principal(c echo.Context) (middleware.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return p, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
