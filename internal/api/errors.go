package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hts-group/hts-tasks/internal/domain"
)

var badRequestErrors = []error{
	domain.ErrEmptyName,
	domain.ErrInvalidKind,
	domain.ErrInvalidItem,
	domain.ErrInvalidField,
	domain.ErrInvalidTime,
	domain.ErrInvalidPriority,
	domain.ErrInvalidCategory,
	domain.ErrInvalidShareCode,
	domain.ErrInvalidBackup,
	domain.ErrNoFieldsToUpdate,
	domain.ErrConfirmationRequired,
	domain.ErrEmptyFile,
}

var notFoundErrors = []error{
	domain.ErrItemNotFound,
	domain.ErrReceivedNotFound,
	domain.ErrShareNotFound,
	domain.ErrUserNotFound,
}

var conflictErrors = []error{
	domain.ErrSharingUnavailable,
	domain.ErrNoSession,
	domain.ErrShareCodeTaken,
	domain.ErrProfileExists,
	domain.ErrMigrationConflict,
}

// statusFor maps a use case error to an HTTP status.
func statusFor(err error) int {
	switch {
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoDataToExport):
		return http.StatusNoContent
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// fail writes err with its mapped status. Server errors are logged.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusNoContent {
		c.Status(status)
		return
	}
	if status >= http.StatusInternalServerError && s.container.Logger != nil {
		s.container.Logger.Error("api", c.Request.Method+" "+c.FullPath()+": "+err.Error())
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}
