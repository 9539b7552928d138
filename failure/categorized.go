package failure

// CategorizedError tags a cause with an explicit Category. Classify honors
// the tag before any other rule, so callers can pin the severity of a cause
// regardless of its underlying type.
type CategorizedError struct {
	Category Category
	Err      error
}

func (e *CategorizedError) Error() string {
	if e == nil || e.Err == nil {
		return "catchy: categorized error"
	}
	return e.Err.Error()
}

func (e *CategorizedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Mark tags err with an explicit category. A nil err returns nil.
func Mark(err error, c Category) error {
	if err == nil {
		return nil
	}
	return &CategorizedError{Category: c, Err: err}
}

// Invalid tags err as caller misuse (warn severity by default).
func Invalid(err error) error { return Mark(err, CategoryInvalid) }

// Runtime tags err as a programming fault (error severity by default).
func Runtime(err error) error { return Mark(err, CategoryRuntime) }

// Operational tags err as an ordinary operational failure (info severity
// by default).
func Operational(err error) error { return Mark(err, CategoryOperational) }
