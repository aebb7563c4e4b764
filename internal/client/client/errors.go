package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response. Detail holds a plain string detail;
// Messages holds the msg fields of a structured validation detail.
type APIError struct {
	Status   int
	Detail   string
	Messages []string
}

func (e *APIError) Error() string {
	if m := e.Message(); m != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, m)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// Message is the first structured message when present, else the detail
// string. It is empty when the server said nothing useful.
func (e *APIError) Message() string {
	if len(e.Messages) > 0 {
		return e.Messages[0]
	}
	return e.Detail
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// Message extracts the user-facing server message from err, if err is (or
// wraps) an APIError.
func Message(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message()
	}
	return ""
}

// parseAPIError understands both error shapes the backend produces:
//
//	{"detail": "Invalid credentials"}
//	{"detail": [{"loc": ["body", "price"], "msg": "field required"}]}
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = strings.TrimSpace(detail)
		return apiErr
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				apiErr.Messages = append(apiErr.Messages, m)
			}
		}
	}
	return apiErr
}
