package policy

import "fmt"

// ValidationError reports the first out-of-range field found by Validate.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("catchy: invalid policy: %s=%v (%s)", e.Field, e.Value, e.Reason)
}
