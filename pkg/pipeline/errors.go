package pipeline

import "fmt"

// InvalidInputError rejects a submission before any external call is made.
// It is the only pipeline error surfaced to the caller; every other failure
// degrades into a valid answer.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func invalidInput(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
