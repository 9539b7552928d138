// Package profile resolves named retry policies. A Provider maps a
// profile name to a policy; the file-backed provider loads profiles
// from YAML and picks up edits without a restart.
package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/justme8code/catchy/policy"
)

// ErrNotFound is returned when a provider has no profile for a name.
var ErrNotFound = errors.New("catchy: profile not found")

// Provider resolves a profile name to the policy governing it.
type Provider interface {
	Policy(ctx context.Context, name string) (policy.Policy, error)
}

// Static serves profiles from a fixed map. The zero value has no
// profiles and resolves nothing.
type Static struct {
	// Profiles maps profile names to policies. Lookups trim the name.
	Profiles map[string]policy.Policy

	// Fallback, when non-nil, serves names missing from Profiles
	// instead of returning ErrNotFound.
	Fallback *policy.Policy
}

var _ Provider = &Static{}

func (s *Static) Policy(_ context.Context, name string) (policy.Policy, error) {
	name = strings.TrimSpace(name)
	if s != nil {
		if pol, ok := s.Profiles[name]; ok {
			return pol, nil
		}
		if s.Fallback != nil {
			return *s.Fallback, nil
		}
	}
	return policy.Policy{}, ErrNotFound
}
