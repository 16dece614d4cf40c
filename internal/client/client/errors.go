package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrSessionExpired = errors.New("session expired")
)

// GenericErrorMessage is shown when the server gave no usable error body.
const GenericErrorMessage = "An unexpected error occurred. Please try again."

// APIError is a non-2xx response. Message is already normalized for display;
// Fields carries per-field validation messages when the server sent them.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status == http.StatusBadGateway ||
			e.Status == http.StatusServiceUnavailable ||
			e.Status == http.StatusGatewayTimeout
	}
	return false
}

// parseAPIError builds an APIError from a response body. Lookup order for
// the message: "error", "detail", "message", then per-field messages joined
// as "field: a, b. other: c", then a bare JSON string, then the generic text.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: GenericErrorMessage}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			apiErr.Message = v
		}
	case map[string]any:
		for _, key := range []string{"error", "detail", "message"} {
			if s, ok := v[key].(string); ok && s != "" {
				apiErr.Message = s
				return apiErr
			}
		}
		apiErr.Fields = fieldErrors(v)
		if msg := joinFieldErrors(apiErr.Fields); msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}

func fieldErrors(m map[string]any) map[string][]string {
	fields := make(map[string][]string, len(m))
	for key, val := range m {
		switch vv := val.(type) {
		case string:
			fields[key] = []string{vv}
		case []any:
			for _, item := range vv {
				fields[key] = append(fields[key], fmt.Sprint(item))
			}
		case nil:
		default:
			fields[key] = []string{fmt.Sprint(vv)}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func joinFieldErrors(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs := strings.Join(fields[k], ", ")
		if k == "non_field_errors" {
			parts = append(parts, msgs)
			continue
		}
		parts = append(parts, k+": "+msgs)
	}
	return strings.Join(parts, ". ")
}
