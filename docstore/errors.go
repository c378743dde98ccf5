package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from the admin API or the
// page origin.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the error description from the service.
	Message string

	// URL is the request URL that produced the error.
	URL string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("docstore: HTTP %d: %s (%s)", err.StatusCode, err.Message, err.URL)
}

// IsNotFound reports whether err is a 404 Not Found response. Absent
// documents and pages are negative results, not failures; callers
// check this predicate instead of matching message text.
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
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil {
		switch {
		case wireError.Message != "":
			apiError.Message = wireError.Message
		case wireError.Error != "":
			apiError.Message = wireError.Error
		}
	}
	if apiError.Message == "" {
		apiError.Message = string(body)
	}
	return apiError
}
