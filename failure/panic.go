package failure

import "fmt"

// PanicError carries a recovered panic value and the stack captured at the
// recovery site. The retry executor and the Outcome combinators produce it
// when a caller-supplied callback panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if e == nil {
		return "catchy: panic"
	}
	return fmt.Sprintf("catchy: panic: %v", e.Value)
}
