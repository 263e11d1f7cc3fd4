package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"hostel-backend/models"
)

const (
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeBusinessRule  = "business_rule_violation"
	ErrCodeValidation    = "validation_error"
	ErrCodeInternal      = "internal_error"
)

type ErrorBody struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields,omitempty"`
	Path      string   `json:"path"`
	Timestamp string   `json:"timestamp"`
}

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, status int, code, message string, fields ...string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": ErrorBody{
		Code:      code,
		Message:   message,
		Fields:    fields,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}})
}

// StatusFor maps an error onto its HTTP status and stable error code.
func StatusFor(err error) (int, string) {
	switch models.KindOf(err) {
	case models.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case models.KindAlreadyExists:
		return http.StatusConflict, ErrCodeAlreadyExists
	case models.KindBusinessRule:
		return http.StatusUnprocessableEntity, ErrCodeBusinessRule
	case models.KindValidation:
		return http.StatusBadRequest, ErrCodeValidation
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest, ErrCodeValidation
	}
	return http.StatusInternalServerError, ErrCodeInternal
}

// HandleError writes the error envelope. Internal errors are logged and
// answered with a generic message.
func HandleError(c *gin.Context, err error) {
	status, code := StatusFor(err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, describeFieldError(fe))
		}
		JSONError(c, status, code, "invalid request payload", fields...)
		return
	}

	if status == http.StatusInternalServerError {
		Logger.WithError(err).WithField("path", c.Request.URL.Path).Error("unexpected error")
		JSONError(c, status, code, "an unexpected error occurred")
		return
	}
	JSONError(c, status, code, err.Error())
}

// BindError answers a failed ShouldBind*. Malformed JSON is a validation error too.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		HandleError(c, err)
		return
	}
	JSONError(c, http.StatusBadRequest, ErrCodeValidation, "invalid request payload: "+err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
