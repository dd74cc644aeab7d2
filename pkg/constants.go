// Package pkg provides shared types and constants for the quizbank API.
package pkg

// Common API path constants.
const (
	// BasePath is the root path for the API.
	BasePath = "/api"

	// HealthCheckPath is the endpoint for the detailed health check.
	HealthCheckPath = BasePath + "/health"

	// Version is reported by the health endpoint.
	Version = "1.0.0"

	// TimeFormat is the layout used for every timestamp in responses.
	TimeFormat = "2006-01-02T15:04:05Z"
)
