package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tdsa-academy/academy-service/internal/services"
)

// ParseStringIDParam reads a path parameter, answering 400 when it is blank.
func ParseStringIDParam(c *gin.Context, param string) (string, bool) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return "", false
	}
	return id, true
}

// formFile opens an optional multipart file. A missing field yields nil.
func formFile(c *gin.Context, field string) (*services.FileUpload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &services.FileUpload{Filename: header.Filename, Content: f}, func() { f.Close() }, nil
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "academy-service",
	})
}
