package walksat

import "fmt"

// UsageError indicates a malformed command line or an unreadable file
// supplied by the user. The caller should print usage text and exit
// nonzero.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// NewUsageError builds a UsageError with a formatted message.
func NewUsageError(format string, args ...interface{}) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError indicates malformed problem or assignment input: a bad
// DIMACS header, an unterminated clause, an empty clause, a literal out of
// range, or an init file that disagrees with the formula's variable count.
type ValidationError struct {
	File string // may be empty if the input did not come from a named file
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.File == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(file, format string, args ...interface{}) *ValidationError {
	return &ValidationError{File: file, Msg: fmt.Sprintf(format, args...)}
}

// InvariantError indicates a violated search-state invariant: a bug in the
// flip engine or heuristics, never a consequence of bad input. Callers
// running in debug mode should treat this as fatal.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "invariant violation: " + e.Msg }

// NewInvariantError builds an InvariantError with a formatted message.
func NewInvariantError(format string, args ...interface{}) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
