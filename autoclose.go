package catchy

import (
	"fmt"
	"io"

	"github.com/justme8code/catchy/failure"
)

// AutoClose runs fn with res and closes res exactly once on every exit
// path, including a panic in fn. An error from fn wins over an error
// from Close; the close error surfaces only when fn succeeded. A nil
// resource interface skips the close.
func AutoClose[R io.Closer, T any](res R, fn func(R) (T, error)) (val T, err error) {
	defer func() {
		closer := io.Closer(res)
		if closer == nil {
			return
		}
		cerr := closer.Close()
		if err == nil {
			err = cerr
		}
	}()

	if fn == nil {
		return val, fmt.Errorf("catchy: function: %w", failure.ErrNilReference)
	}
	return fn(res)
}
