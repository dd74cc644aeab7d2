// Package handler provides HTTP handler functions for the quizbank API.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roguepikachu/quizbank/internal/apperr"
	"github.com/roguepikachu/quizbank/pkg"
	"github.com/roguepikachu/quizbank/pkg/logger"
)

const internalErrorMessage = "An unexpected error occurred"

// now is replaced in tests.
var now = time.Now

// respondError writes the error envelope for err. It is the only place errors become statuses.
func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status := http.StatusInternalServerError
	message := internalErrorMessage
	var details map[string]string

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		status = appErr.Kind.HTTPStatus()
		message = appErr.Message
		details = appErr.Details
		logger.With(ctx, map[string]any{"kind": appErr.Kind, "status": status}).Debug(err.Error())
	} else {
		logger.Error(ctx, "unhandled error: %s", err.Error())
	}
	_ = c.Error(err)

	body := pkg.NewErrorResponse(status, message, c.Request.URL.Path, now())
	body.Details = details
	c.AbortWithStatusJSON(status, body)
}

// NotFound answers unmatched routes with the error envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, pkg.NewErrorResponse(http.StatusNotFound, "No handler found for "+c.Request.Method+" "+c.Request.URL.Path, c.Request.URL.Path, now()))
}

// MethodNotAllowed answers known paths hit with an unsupported method.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, pkg.NewErrorResponse(http.StatusMethodNotAllowed, "Request method '"+c.Request.Method+"' is not supported", c.Request.URL.Path, now()))
}
