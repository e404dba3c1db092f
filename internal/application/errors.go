package application

import "errors"

var (
	// ErrNotFound is returned when a directly requested record does not
	// exist. Gesture commits never return it; a vanished appointment is
	// treated as an already-deleted race and the gesture becomes a no-op.
	ErrNotFound = errors.New("application: not found")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// Warning codes surfaced to callers for gestures that were refused or
// adjusted without being treated as errors.
const (
	// WarningTargetNotWorked signals a paste whose target instant is not a
	// worked day; nothing was created.
	WarningTargetNotWorked = "target_not_worked"
	// WarningNothingWorked signals a gesture whose span contained no
	// worked time; nothing was changed.
	WarningNothingWorked = "nothing_worked"
)

// Warning is an advisory signal attached to a gesture result. A gesture
// that silently does nothing is preferable to a failed interaction, so these
// never become errors.
type Warning struct {
	Code    string
	Message string
}
