package githost

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from the hosting API. The
// service returns structured JSON error bodies with a message field;
// unstructured bodies are carried verbatim.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the error description from the service.
	Message string

	// URL is the request URL that produced the error.
	URL string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("githost: HTTP %d: %s (%s)", err.StatusCode, err.Message, err.URL)
}

// IsNotFound reports whether err is a hosting API 404 Not Found
// response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == 404
}

// parseAPIError builds an *APIError from a status code and response
// body, preferring the structured message when the body parses.
func parseAPIError(statusCode int, url string, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode, URL: url}

	var wireError struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
	} else {
		apiError.Message = string(body)
	}
	return apiError
}
