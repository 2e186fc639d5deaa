package adminclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for admin API failures.
var (
	ErrNotFound         = errors.New("event not found")
	ErrImportFailed     = errors.New("import rejected")
	ErrBadRequest       = errors.New("request rejected")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrUsage            = errors.New("usage")
	ErrIDsExhausted     = errors.New("no identifier left")
)

// StatusError is a non-success response from the admin API.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the response onto a sentinel kind.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == "import_failed":
		return ErrImportFailed
	case e.Code == "ids_exhausted":
		return ErrIDsExhausted
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusBadRequest:
		return ErrBadRequest
	default:
		return ErrUnexpectedStatus
	}
}

func newStatusError(status int, body []byte) error {
	e := &StatusError{Status: status}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Code, e.Message = payload.Code, payload.Message
	}
	return e
}

// transportError is a request that never produced a response.
type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string { return e.op + ": " + e.err.Error() }

func (e *transportError) Unwrap() error { return e.err }
