package weather

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when the API answered but the payload carried nothing usable.
var ErrNoData = errors.New("weather: empty payload")

// ErrNoAPIKey is returned before any request is made when the key is blank.
var ErrNoAPIKey = errors.New("weather: api key not set")

// FetchError describes a failed fetch for one subject.
type FetchError struct {
	Op      string // current, astronomy, forecast
	Subject string
	Status  int    // HTTP status, 0 for transport errors
	Code    int    // API error code when the body carried one
	Message string // API error message when the body carried one
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s %q: status %d: %s (code %d)", e.Op, e.Subject, e.Status, e.Message, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("%s %q: %v", e.Op, e.Subject, e.Err)
	default:
		return fmt.Sprintf("%s %q: status %d", e.Op, e.Subject, e.Status)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// apiError is the error envelope weatherapi.com returns with 4xx responses.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
