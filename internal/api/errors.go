package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// HTTPError is a completed exchange with a non-2xx status. Body is the raw
// response body, unchanged.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if m := e.Message(); m != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), m)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func (e *HTTPError) decode() errorBody {
	var b errorBody
	_ = json.Unmarshal(e.Body, &b)
	return b
}

// Message is the server's "message" (or "error") field, "" if absent.
func (e *HTTPError) Message() string {
	b := e.decode()
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// FieldErrors flattens a validation response to the first message per field.
func (e *HTTPError) FieldErrors() map[string]string {
	b := e.decode()
	if len(b.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(b.Errors))
	for k, msgs := range b.Errors {
		if len(msgs) > 0 {
			out[k] = msgs[0]
		}
	}
	return out
}

// FirstFieldError is the message of the alphabetically first failing field.
func (e *HTTPError) FirstFieldError() string {
	fe := e.FieldErrors()
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return fe[keys[0]]
}

// StatusOf returns the status of an *HTTPError anywhere in err's chain, 0 otherwise.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}
