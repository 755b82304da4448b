package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"foodgram/internal/http-api/service"
	"foodgram/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps service errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrNotSubscribed),
		errors.Is(err, service.ErrAlreadyInList),
		errors.Is(err, service.ErrNotInList),
		errors.Is(err, service.ErrNoAvatar):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled request error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON binds the request body into obj and writes a 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldMessages(verrs)})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// fieldMessages keys binding failures by the JSON path of the field.
func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := trimRoot(fe.Namespace())
		if _, ok := fields[name]; ok {
			continue
		}
		fields[name] = fieldMessage(fe)
	}
	return fields
}

func trimRoot(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. Letters, digits and @/./+/-/_ only."
	case "slug":
		return "Enter a valid slug. Letters, digits, hyphens and underscores only."
	case "max":
		return fmt.Sprintf("Ensure this value is at most %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	case "min", "gt":
		return fmt.Sprintf("Ensure this value is at least %s.", minParam(fe))
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

func minParam(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "1"
	}
	return fe.Param()
}
