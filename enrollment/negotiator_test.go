package enrollment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

func newNegotiator(authority *api.MockSigningAuthority, prompt *api.MockPrompter) (*Negotiator, *api.RecordingReporter) {
	reporter := &api.RecordingReporter{}
	return &Negotiator{
		Authority: authority,
		Prompt:    prompt,
		Report:    reporter,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, reporter
}

func TestEmptyDeviceListForcesRegistrationWithoutPrompting(t *testing.T) {
	authority := new(api.MockSigningAuthority)
	prompt := new(api.MockPrompter)
	n, reporter := newNegotiator(authority, prompt)

	authority.On("ListDevices", mock.Anything, mock.Anything).Return([]interfaces.DeviceRecord{}, nil)

	decision, err := n.Negotiate(context.Background(), interfaces.TeamContext{TeamID: "TEAM1"})
	require.NoError(t, err)
	assert.True(t, decision.RegisterNewDevice)
	assert.Empty(t, decision.DeviceIdentifiers)
	prompt.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
	assert.Empty(t, reporter.Tables)
}

func TestNonEmptyListDefersToOperatorDefaultYes(t *testing.T) {
	authority := new(api.MockSigningAuthority)
	prompt := new(api.MockPrompter)
	n, reporter := newNegotiator(authority, prompt)

	devices := []interfaces.DeviceRecord{
		{Name: "Jane's phone", DeviceNumber: "udid-1"},
		{Name: "Test bench", DeviceNumber: "udid-2"},
	}
	authority.On("ListDevices", mock.Anything, mock.Anything).Return(devices, nil)
	// The default answer offered to the operator must be yes.
	prompt.On("Confirm", "Register a new device?", true).Return(false, nil)

	decision, err := n.Negotiate(context.Background(), interfaces.TeamContext{TeamID: "TEAM1"})
	require.NoError(t, err)
	assert.False(t, decision.RegisterNewDevice, "operator answer is authoritative")
	assert.Equal(t, []string{"udid-1", "udid-2"}, decision.DeviceIdentifiers)
	require.Len(t, reporter.Tables, 1)
	assert.Equal(t, "Registered devices", reporter.Tables[0].Title)
	assert.Equal(t, [][]string{{"Jane's phone", "udid-1"}, {"Test bench", "udid-2"}}, reporter.Tables[0].Rows)
}

func TestListingFaultAbortsNegotiation(t *testing.T) {
	authority := new(api.MockSigningAuthority)
	prompt := new(api.MockPrompter)
	n, _ := newNegotiator(authority, prompt)

	authority.On("ListDevices", mock.Anything, mock.Anything).Return(nil, errors.New("service unavailable"))

	_, err := n.Negotiate(context.Background(), interfaces.TeamContext{TeamID: "TEAM1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device listing failed")
}
