package interfaces

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBundleIdentifier(t *testing.T) {
	id, err := NewBundleIdentifier("XY12 34AB")
	require.NoError(t, err)
	assert.Equal(t, BundleIdentifier("dev.standalone.xy1234ab"), id)
	assert.NoError(t, id.Validate())

	// Deterministic: same team id, same identifier.
	again, err := NewBundleIdentifier("XY12 34AB")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = NewBundleIdentifier("!!!")
	assert.Error(t, err)
}

func TestNewExperienceName(t *testing.T) {
	name, err := NewExperienceName(Identity{Username: "jane", Email: "jane@example.com"}, "TEAM1")
	require.NoError(t, err)
	assert.Equal(t, ExperienceName("@jane/app-team1"), name)
	assert.Equal(t, "jane", name.Account())

	anon, err := NewExperienceName(Identity{}, "TEAM1")
	require.NoError(t, err)
	assert.Equal(t, ExperienceName("@anonymous/app-team1"), anon)
	assert.Equal(t, AnonymousAccount, anon.Account())
}

func TestNewPlatform(t *testing.T) {
	p, err := NewPlatform(" iOS ")
	require.NoError(t, err)
	assert.Equal(t, PlatformIOS, p)

	_, err = NewPlatform("windows-phone")
	assert.Error(t, err)
}

func TestIdentityIsAnonymous(t *testing.T) {
	assert.True(t, Identity{}.IsAnonymous())
	assert.False(t, Identity{Username: "jane"}.IsAnonymous())
}

func TestBusinessDenialError(t *testing.T) {
	err := fmt.Errorf("eligibility check: %w", &BusinessDenialError{Reason: "quota exceeded"})
	assert.True(t, IsBusinessDenial(err))
	assert.Contains(t, err.Error(), "quota exceeded")

	assert.False(t, IsBusinessDenial(errors.New("connection refused")))
}
