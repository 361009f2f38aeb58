package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Messages used when the server did not supply one.
const (
	DefaultErrorMessage = "An error occurred"
	NetworkErrorMessage = "Network error occurred"
)

// Error is a failed API call: either a non-2xx response or a transport
// failure, which is reported as status 500.
type Error struct {
	Status  int
	Message string
	Body    json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api status %d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Message returns the user facing text for err: the API message when err is
// an *Error, otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

const maxErrorBody = 1 << 20

func errorFromResponse(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &Error{Status: resp.StatusCode, Message: DefaultErrorMessage}
	if len(raw) == 0 {
		return apiErr
	}
	if json.Valid(raw) {
		apiErr.Body = json.RawMessage(raw)
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}

func networkError(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: NetworkErrorMessage, Err: err}
}
