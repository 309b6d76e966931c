package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"pharmpal/internal/common"
	"pharmpal/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// respondError renders err as a common.ErrorResponse. Internal errors are
// logged with their cause and reported generically.
func respondError(c echo.Context, err error) error {
	kind := common.KindOf(err)
	if kind == common.KindInternal {
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(kind.HTTPStatus(), common.CreateErrorResponse(kind.String(), common.PublicMessage(err), nil))
}

// ErrorHandler is installed as echo's HTTPErrorHandler so that errors
// raised by middleware and binding share the response shape of the handlers.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if writeErr := c.JSON(he.Code, common.CreateErrorResponse(codeForStatus(he.Code), message, nil)); writeErr != nil {
			log.Errorf("failed to write error response: %v", writeErr)
		}
		return
	}
	if writeErr := respondError(c, err); writeErr != nil {
		log.Errorf("failed to write error response: %v", writeErr)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return common.KindValidation.String()
	case http.StatusUnauthorized:
		return common.KindUnauthorized.String()
	case http.StatusNotFound:
		return common.KindNotFound.String()
	case http.StatusConflict:
		return common.KindConflict.String()
	case http.StatusTooManyRequests:
		return common.KindRateLimited.String()
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return common.KindInternal.String()
	}
}

// RequestValidator adapts go-playground/validator to echo.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(models.Date); ok && !d.IsZero() {
			return d.String()
		}
		return nil
	}, models.Date{})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate reports the first failing field as a validation error.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return common.Validationf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	return common.Validation(err.Error())
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return common.Validation("Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func currentUser(c echo.Context) (uuid.UUID, error) {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, common.Unauthorized("Could not validate credentials")
	}
	return userID, nil
}
