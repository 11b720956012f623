package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alimgiray/staffhub/internal/middleware"
	"github.com/alimgiray/staffhub/internal/models"
	"github.com/alimgiray/staffhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *models.NotFoundError
		stateErr   *models.StateError
		validation *models.ValidationError
	)

	switch {
	case errors.As(err, &validation):
		respondMessage(c, http.StatusBadRequest, validation.Message)
	case errors.As(err, &stateErr):
		respondMessage(c, http.StatusBadRequest, stateErr.Message)
	case errors.As(err, &notFound):
		respondMessage(c, http.StatusNotFound, notFound.Error())
	case errors.Is(err, models.ErrNotFound):
		respondMessage(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		respondMessage(c, http.StatusUnauthorized, models.ErrInvalidCredentials.Error())
	case errors.Is(err, models.ErrUnauthorized):
		respondMessage(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, models.ErrForbidden):
		respondMessage(c, http.StatusForbidden, "You don't have permission to perform this action")
	default:
		logger.Component("http").WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled error")
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": status < http.StatusBadRequest,
		"message": message,
	})
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requirePrincipal returns the caller, answering 401 when there is none
func requirePrincipal(c *gin.Context) (models.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		respondError(c, models.ErrUnauthorized)
	}
	return principal, ok
}

// dateQuery parses a required date query parameter
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		respondError(c, models.NewValidationError(name, name+" is required"))
		return time.Time{}, false
	}
	date, err := models.ParseDate(value)
	if err != nil {
		respondError(c, models.NewValidationError(name, name+" must be a date (YYYY-MM-DD)"))
		return time.Time{}, false
	}
	return date, true
}

// optionalDateQuery parses an optional date query parameter
func optionalDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil, true
	}
	date, err := models.ParseDate(value)
	if err != nil {
		respondError(c, models.NewValidationError(name, name+" must be a date (YYYY-MM-DD)"))
		return nil, false
	}
	return &date, true
}

// splitList splits a comma separated query value, dropping blanks
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// timeNow supplies the default date windows; tests replace it
var timeNow = func() time.Time { return time.Now().UTC() }
