package retry

import "fmt"

// ExhaustedError is returned by the void form when every attempt failed.
// Err holds the last failure after the policy transform.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	if e == nil {
		return "catchy: retries exhausted"
	}
	return fmt.Sprintf("catchy: retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InterruptedError reports a retry wait cut short by context
// cancellation. Err is the context error and Cause the last failure
// (after the policy transform); Unwrap exposes both, so errors.Is
// matches either.
type InterruptedError struct {
	Attempts int
	Cause    error
	Err      error
}

func (e *InterruptedError) Error() string {
	if e == nil {
		return "catchy: retry interrupted"
	}
	return fmt.Sprintf("catchy: retry interrupted after %d attempts: %v (last failure: %v)", e.Attempts, e.Err, e.Cause)
}

func (e *InterruptedError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// BudgetError reports a retry denied by the named budget. Err is the
// last failure (after the policy transform).
type BudgetError struct {
	Name     string
	Reason   string
	Attempts int
	Err      error
}

func (e *BudgetError) Error() string {
	if e == nil {
		return "catchy: retry budget denied"
	}
	return fmt.Sprintf("catchy: budget %q denied retry after %d attempts (%s): %v", e.Name, e.Attempts, e.Reason, e.Err)
}

func (e *BudgetError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ProfileError reports a named call whose profile could not be
// resolved. No attempt has run when it is returned.
type ProfileError struct {
	Name string
	Err  error
}

func (e *ProfileError) Error() string {
	if e == nil {
		return "catchy: profile error"
	}
	return fmt.Sprintf("catchy: profile %q: %v", e.Name, e.Err)
}

func (e *ProfileError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
