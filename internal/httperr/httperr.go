package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error carries an HTTP status and the client-facing message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }

func UnsupportedMediaType(message string) *Error {
	return New(http.StatusUnsupportedMediaType, message)
}

func BadGateway(message string, err error) *Error {
	return Wrap(http.StatusBadGateway, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(http.StatusInternalServerError, message, err)
}

// StatusOf reports the status Write would respond with for err.
func StatusOf(err error) int {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Status
	}
	return http.StatusInternalServerError
}

// Write renders err as {"message":"..."}. Anything that is not an *Error
// becomes a 500 with a generic message so internals never reach the client.
func Write(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	var herr *Error
	if errors.As(err, &herr) {
		status = herr.Status
		message = herr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
