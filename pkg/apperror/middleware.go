package apperror

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Response is the JSON body written for every failed request
type Response struct {
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Data    []FieldError `json:"data,omitempty"`
}

// Middleware renders the last error attached with c.Error as a Response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		resp := ToResponse(c.Errors.Last().Err)
		if resp.Status == http.StatusInternalServerError {
			log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, c.Errors.Last().Err)
		}
		c.JSON(resp.Status, resp)
	}
}

// ToResponse converts any error into the wire shape.
// Internal failures never leak their cause to the client.
func ToResponse(err error) Response {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		err = FromValidator(verrs)
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return Response{Message: "An error occurred.", Status: http.StatusInternalServerError}
	}

	message := appErr.Message
	if appErr.Kind == KindInternal && message == "" {
		message = "An error occurred."
	}
	return Response{
		Message: message,
		Status:  appErr.Status(),
		Data:    appErr.Data,
	}
}

// FromValidator converts gin binding failures into a validation error with per-field detail.
func FromValidator(verrs validator.ValidationErrors) *Error {
	data := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		data = append(data, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: describeTag(fe),
		})
	}
	return Validation("Validation failed", data...)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
