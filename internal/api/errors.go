package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const genericRequestError = "Ошибка запроса"

// StatusError is a non-2xx backend response with a best-effort human-readable
// message pulled from the body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// newStatusError extracts the message a FastAPI backend puts in the body:
// a "detail" string, a validation array of {msg}, or a "message" field.
func newStatusError(code int, body []byte) *StatusError {
	return &StatusError{Code: code, Message: extractMessage(body)}
}

func extractMessage(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return genericRequestError
	}

	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &items) == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				msgs = append(msgs, it.Msg)
			}
			return strings.Join(msgs, ", ")
		}
	}
	if payload.Message != "" {
		return payload.Message
	}
	return genericRequestError
}

// Message returns the surfaced error text, falling back to err.Error for
// transport failures.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// IsUnauthorized reports a 401 or 403 response.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden)
}

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}
