package advisory

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("move advisory unavailable")

// UnavailableError describes a failed exchange: a transport error, a non-2xx
// status, or a body that could not be decoded into a square.
type UnavailableError struct {
	Status int
	Body   string
	Err    error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("move advisory unavailable: status=%d: %v", e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("move advisory unavailable: status=%d body=%s", e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("move advisory unavailable: %v", e.Err)
	default:
		return ErrUnavailable.Error()
	}
}

func (e *UnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnavailable}
	}
	return []error{ErrUnavailable, e.Err}
}
