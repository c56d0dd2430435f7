// internal/event/errors.go
package event

import (
	"errors"
	"fmt"
)

// ErrInvalidEventName is returned by Fire when the event name carries no
// namespace separator. The original silently misbehaved on native names; we
// make the precondition explicit so the failure is attributable.
var ErrInvalidEventName = errors.New("custom event name must contain a namespace separator")

// SelectorError is a typed error for delegation selectors that fail to
// compile, so callers can classify the failure with errors.As instead of
// string matching.
type SelectorError struct {
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid delegation selector %q: %v", e.Selector, e.Err)
}

func (e *SelectorError) Unwrap() error {
	return e.Err
}
