package handlers

import (
	"strconv"
	"strings"

	"realestate-catalog/internal/errors"

	"github.com/gin-gonic/gin"
)

// fail hands err to the ErrorHandler middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindJSON decodes the request body, reporting malformed input as a validation failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, errors.Validation("request body is invalid: %v", err))
		return false
	}
	return true
}

// optionalFloat reads a numeric query parameter. Blank means absent.
func optionalFloat(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Validation("%s must be a number", name)
	}
	return &v, nil
}
