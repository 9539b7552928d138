package failure

// Transform rewrites the terminal cause of an exhausted, interrupted, or
// budget-denied call before it is reported. It is carried on policy.Policy
// and applied exactly once, never between attempts.
type Transform func(error) error

// Apply runs t over err. A nil Transform is the identity; a Transform
// returning nil keeps the original cause.
func (t Transform) Apply(err error) error {
	if t == nil || err == nil {
		return err
	}
	if out := t(err); out != nil {
		return out
	}
	return err
}
