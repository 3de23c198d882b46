package domain

import "fmt"

// ValidationError marks input the caller got wrong (HTTP 400).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError marks a vendor API failure (HTTP 502 at our edge).
type UpstreamError struct {
	Op     string // e.g. "searchText", "speech-to-text"
	Status int    // upstream HTTP status, 0 for transport errors
	Msg    string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed %d: %s", e.Op, e.Status, e.Msg)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Msg)
}
