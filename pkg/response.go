package pkg

import (
	"net/http"
	"time"
)

// Response represents a probe response.
type Response struct {
	Code    int    `json:"code"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// NewResponse creates a new Response with the given code, data, and message.
func NewResponse(code int, data any, message string) Response {
	return Response{
		Code:    code,
		Data:    data,
		Message: message,
	}
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Timestamp string            `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Details   map[string]string `json:"details,omitempty"`
}

// NewErrorResponse builds the error envelope. Error is the reason phrase of status.
func NewErrorResponse(status int, message, path string, at time.Time) ErrorResponse {
	return ErrorResponse{
		Timestamp: at.UTC().Format(TimeFormat),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
	}
}
