package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justme8code/catchy/policy"
)

func TestStatic_Lookup(t *testing.T) {
	s := &Static{Profiles: map[string]policy.Policy{
		"fetch-user": {MaxRetries: 3, BaseDelay: 100 * time.Millisecond},
	}}

	pol, err := s.Policy(context.Background(), "fetch-user")
	require.NoError(t, err)
	assert.Equal(t, 3, pol.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, pol.BaseDelay)

	pol, err = s.Policy(context.Background(), "  fetch-user  ")
	require.NoError(t, err, "lookups trim the name")
	assert.Equal(t, 3, pol.MaxRetries)
}

func TestStatic_Miss(t *testing.T) {
	s := &Static{Profiles: map[string]policy.Policy{"known": {}}}

	_, err := s.Policy(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatic_Fallback(t *testing.T) {
	fallback := policy.Policy{MaxRetries: 1}
	s := &Static{
		Profiles: map[string]policy.Policy{"known": {MaxRetries: 5}},
		Fallback: &fallback,
	}

	pol, err := s.Policy(context.Background(), "known")
	require.NoError(t, err)
	assert.Equal(t, 5, pol.MaxRetries)

	pol, err = s.Policy(context.Background(), "unknown")
	require.NoError(t, err, "fallback serves missing names")
	assert.Equal(t, 1, pol.MaxRetries)
}

func TestStatic_ZeroAndNil(t *testing.T) {
	var zero Static
	_, err := zero.Policy(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotFound)

	var nilStatic *Static
	_, err = nilStatic.Policy(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotFound)
}
