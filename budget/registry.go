package budget

import (
	"fmt"
	"strings"
	"sync"

	"github.com/justme8code/catchy/failure"
	"github.com/justme8code/catchy/internal"
)

// Registry resolves the budget names carried on policies. Lookups and
// registrations trim surrounding whitespace, so " api " and "api" are the
// same budget. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	budgets map[string]Budget
}

func NewRegistry() *Registry {
	return &Registry{budgets: make(map[string]Budget)}
}

// Register binds b to name. The name must be non-empty after trimming and
// b must not be nil or a typed nil; violations report
// failure.ErrInvalidArgument or failure.ErrNilReference. Re-registering a
// name replaces the previous budget.
func (r *Registry) Register(name string, b Budget) error {
	if r == nil {
		return fmt.Errorf("catchy: budget registry: %w", failure.ErrNilReference)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("catchy: budget name must not be empty: %w", failure.ErrInvalidArgument)
	}
	if internal.IsTypedNil(b) {
		return fmt.Errorf("catchy: budget %q: %w", name, failure.ErrNilReference)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.budgets == nil {
		r.budgets = make(map[string]Budget)
	}
	r.budgets[name] = b
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Registry) MustRegister(name string, b Budget) {
	if err := r.Register(name, b); err != nil {
		panic(err)
	}
}

// Get returns the budget registered under the trimmed name. A nil or
// typed-nil entry reports !ok.
func (r *Registry) Get(name string) (Budget, bool) {
	if r == nil {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.budgets[name]
	if !ok || b == nil {
		return nil, false
	}
	return b, true
}
