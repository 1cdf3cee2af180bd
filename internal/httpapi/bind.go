package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst. A value of the wrong JSON type
// is reported against its field; anything else is malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if ferr := bindError(err); ferr != nil {
		writeError(c, ferr)
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
	return false
}

// bindError converts decoder errors that name a field into a validation error.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return badParam(field, "type")
	}
	var timeErr *time.ParseError
	if errors.As(err, &timeErr) {
		return badParam("body", "rfc3339")
	}
	return nil
}
