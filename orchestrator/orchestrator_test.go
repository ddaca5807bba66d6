package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

type fixture struct {
	auth      *api.MockAuthProvider
	authority *api.MockSigningAuthority
	builds    *api.MockBuildService
	store     *api.MockCredentialStore
	prompt    *api.MockPrompter
	reporter  *api.RecordingReporter

	orch *Orchestrator
	cfg  Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth:      new(api.MockAuthProvider),
		authority: new(api.MockSigningAuthority),
		builds:    new(api.MockBuildService),
		store:     new(api.MockCredentialStore),
		prompt:    new(api.MockPrompter),
		reporter:  &api.RecordingReporter{},
	}
	f.orch = &Orchestrator{
		Auth:      f.auth,
		Authority: f.authority,
		Builds:    f.builds,
		Store:     f.store,
		Prompt:    f.prompt,
		Report:    f.reporter,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	f.cfg = Config{
		Platform: interfaces.PlatformIOS,
		// Point at a path that never exists so the overlay is absent by
		// default; tests that need one write their own file.
		OverlayPath: filepath.Join(t.TempDir(), "provisioner.yaml"),
		Auth:        api.AuthOptions{Username: "jane", Password: "secret"},
	}
	return f
}

func (f *fixture) authResponse(teamID string) *api.AuthResponse {
	resp := &api.AuthResponse{AppleID: "dev@example.com", AppleIDPassword: "apple-pw"}
	resp.Team.ID = teamID
	return resp
}

func (f *fixture) allowBuild() {
	f.builds.On("IsAllowedToBuild", mock.Anything, mock.Anything, mock.Anything).
		Return(&api.Allowance{IsAllowed: true}, nil)
}

func (f *fixture) run(t *testing.T) (*api.BuildResult, error) {
	t.Helper()
	return f.orch.Run(context.Background(), f.cfg)
}

func (f *fixture) assertNoStoreCall(t *testing.T) {
	t.Helper()
	f.store.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Scenario: anonymous actor, empty device list. The run must produce a
// registration link, never touch the credential store, and report push
// notifications as disabled.
func TestAnonymousRunWithEmptyDeviceList(t *testing.T) {
	f := newFixture(t)

	f.auth.On("CurrentUser", mock.Anything).Return(nil, nil)
	f.auth.On("Authenticate", mock.Anything, f.cfg.Auth).Return(f.authResponse("TEAM1"), nil)
	f.allowBuild()
	f.authority.On("EnsureAppExists", mock.Anything, mock.Anything, api.AppOptions{EnablePushNotifications: true}).Return(nil)

	f.authority.On("LookupDistributionCert", mock.Anything, mock.Anything).
		Return(&api.DistributionCert{CertP12: "p12", CertPassword: "pw"}, nil)
	f.authority.On("LookupPushKey", mock.Anything, mock.Anything).Return(nil, interfaces.ErrCredentialNotFound)
	f.prompt.On("Confirm", mock.MatchedBy(func(q string) bool { return q == "No push key on file. Create one now? (declining disables push notifications)" }), true).
		Return(true, nil)
	f.authority.On("CreatePushKey", mock.Anything, mock.Anything).
		Return(&api.PushKey{KeyID: "K1", TeamID: "TEAM1", KeyP8: "p8"}, nil)

	f.prompt.On("Input", mock.Anything, mock.Anything).Return("ops@example.com", nil)
	f.authority.On("ListDevices", mock.Anything, mock.Anything).Return([]interfaces.DeviceRecord{}, nil)

	f.builds.On("Submit", mock.Anything, mock.MatchedBy(func(req *api.BuildRequest) bool {
		return req.RegisterNewDevice && req.User == "" && req.NotifyEmail == "ops@example.com"
	})).Return(&api.BuildResult{RegistrationURL: "https://builds.example.com/register/abc"}, nil)

	result, err := f.run(t)
	require.NoError(t, err)

	assert.Equal(t, "https://builds.example.com/register/abc", result.RegistrationURL)
	assert.Empty(t, result.StatusURL)
	f.assertNoStoreCall(t)

	reason, ok := findDisabled(f.reporter, ServicePushNotifications)
	require.True(t, ok, "push notifications must be reported disabled")
	assert.Contains(t, reason, "anonymous")

	// The registration link is rendered scannable.
	assert.Equal(t, []string{"https://builds.example.com/register/abc"}, f.reporter.QRs)
}

// findDisabled digs a disabled-service reason out of the rendered report.
func findDisabled(rep *api.RecordingReporter, service string) (string, bool) {
	for _, table := range rep.Tables {
		if table.Title != "Disabled services" {
			continue
		}
		for _, row := range table.Rows {
			if len(row) == 2 && row[0] == service {
				return row[1], true
			}
		}
	}
	return "", false
}

// Scenario: authenticated actor with one dirty push key; the operator
// declines new device registration. Exactly one store call, containing
// only push key fields, and a status link.
func TestAuthenticatedRunPersistsOnlyDirtyPushKey(t *testing.T) {
	f := newFixture(t)

	jane := &interfaces.Identity{Username: "jane", Email: "jane@example.com"}
	f.auth.On("CurrentUser", mock.Anything).Return(jane, nil)
	f.auth.On("Authenticate", mock.Anything, f.cfg.Auth).Return(f.authResponse("TEAM1"), nil)
	f.allowBuild()
	f.authority.On("EnsureAppExists", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	f.authority.On("LookupDistributionCert", mock.Anything, mock.Anything).
		Return(&api.DistributionCert{CertP12: "old", CertPassword: "oldpw"}, nil)
	f.authority.On("LookupPushKey", mock.Anything, mock.Anything).Return(nil, interfaces.ErrCredentialNotFound)
	f.prompt.On("Confirm", mock.MatchedBy(func(q string) bool { return q != "Register a new device?" }), true).
		Return(true, nil)
	f.authority.On("CreatePushKey", mock.Anything, mock.Anything).
		Return(&api.PushKey{KeyID: "K1", TeamID: "TEAM1", KeyP8: "p8"}, nil)

	f.store.On("UpdateCredentials", mock.Anything, interfaces.PlatformIOS,
		mock.MatchedBy(func(fields api.CredentialFields) bool {
			_, hasCert := fields["cert_p12"]
			return !hasCert && fields["push_key_id"] == "K1"
		}),
		api.CredentialKeys{
			Username:         "jane",
			ExperienceName:   "@jane/app-team1",
			BundleIdentifier: "dev.standalone.team1",
		}).Return(nil).Once()

	f.authority.On("ListDevices", mock.Anything, mock.Anything).
		Return([]interfaces.DeviceRecord{{Name: "Jane's phone", DeviceNumber: "udid-1"}}, nil)
	f.prompt.On("Confirm", "Register a new device?", true).Return(false, nil)

	f.builds.On("Submit", mock.Anything, mock.MatchedBy(func(req *api.BuildRequest) bool {
		return !req.RegisterNewDevice &&
			req.User == "jane" &&
			req.NotifyEmail == "jane@example.com" &&
			len(req.DeviceIdentifiers) == 1 && req.DeviceIdentifiers[0] == "udid-1"
	})).Return(&api.BuildResult{StatusURL: "https://builds.example.com/status/xyz"}, nil)

	result, err := f.run(t)
	require.NoError(t, err)

	assert.Equal(t, "https://builds.example.com/status/xyz", result.StatusURL)
	assert.Empty(t, result.RegistrationURL)
	f.store.AssertNumberOfCalls(t, "UpdateCredentials", 1)

	// Identity carries an email, so the run never prompts for one.
	f.prompt.AssertNotCalled(t, "Input", mock.Anything, mock.Anything)
	assert.Empty(t, f.reporter.QRs)
}

// Scenario: eligibility denied. The exact reason surfaces as a business
// denial and no further external call happens.
func TestEligibilityDenialShortCircuits(t *testing.T) {
	f := newFixture(t)

	f.auth.On("CurrentUser", mock.Anything).Return(&interfaces.Identity{Username: "jane"}, nil)
	f.auth.On("Authenticate", mock.Anything, mock.Anything).Return(f.authResponse("TEAM1"), nil)
	f.builds.On("IsAllowedToBuild", mock.Anything, "jane", "TEAM1").
		Return(&api.Allowance{IsAllowed: false, ErrorMessage: "quota exceeded"}, nil)

	_, err := f.run(t)
	require.Error(t, err)
	assert.True(t, interfaces.IsBusinessDenial(err))
	assert.Contains(t, err.Error(), "quota exceeded")

	f.authority.AssertNotCalled(t, "EnsureAppExists", mock.Anything, mock.Anything, mock.Anything)
	f.authority.AssertNotCalled(t, "LookupDistributionCert", mock.Anything, mock.Anything)
	f.authority.AssertNotCalled(t, "ListDevices", mock.Anything, mock.Anything)
	f.builds.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	f.assertNoStoreCall(t)
}

func TestMalformedOverlayDegradesInsteadOfAborting(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.cfg.OverlayPath, []byte("name: [unclosed"), 0644))

	f.auth.On("CurrentUser", mock.Anything).Return(&interfaces.Identity{Username: "jane", Email: "jane@example.com"}, nil)
	f.auth.On("Authenticate", mock.Anything, mock.Anything).Return(f.authResponse("TEAM1"), nil)
	f.allowBuild()
	f.authority.On("EnsureAppExists", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.authority.On("LookupDistributionCert", mock.Anything, mock.Anything).
		Return(&api.DistributionCert{CertP12: "p12"}, nil)
	f.authority.On("LookupPushKey", mock.Anything, mock.Anything).
		Return(&api.PushKey{KeyID: "K1"}, nil)
	f.authority.On("ListDevices", mock.Anything, mock.Anything).
		Return([]interfaces.DeviceRecord{{Name: "bench", DeviceNumber: "udid-9"}}, nil)
	f.prompt.On("Confirm", "Register a new device?", true).Return(true, nil)
	f.builds.On("Submit", mock.Anything, mock.MatchedBy(func(req *api.BuildRequest) bool {
		return req.Overlay == nil
	})).Return(&api.BuildResult{RegistrationURL: "https://builds.example.com/register/abc"}, nil)

	result, err := f.run(t)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RegistrationURL)
	assert.NotEmpty(t, f.reporter.Warnings, "degraded overlay must be reported")
}

func TestResultVariantMismatchIsAnError(t *testing.T) {
	f := newFixture(t)

	f.auth.On("CurrentUser", mock.Anything).Return(&interfaces.Identity{Username: "jane", Email: "jane@example.com"}, nil)
	f.auth.On("Authenticate", mock.Anything, mock.Anything).Return(f.authResponse("TEAM1"), nil)
	f.allowBuild()
	f.authority.On("EnsureAppExists", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.authority.On("LookupDistributionCert", mock.Anything, mock.Anything).
		Return(&api.DistributionCert{CertP12: "p12"}, nil)
	f.authority.On("LookupPushKey", mock.Anything, mock.Anything).
		Return(&api.PushKey{KeyID: "K1"}, nil)
	f.authority.On("ListDevices", mock.Anything, mock.Anything).Return([]interfaces.DeviceRecord{}, nil)

	// Empty device list forces registration, but the service answers with
	// a status link.
	f.builds.On("Submit", mock.Anything, mock.Anything).
		Return(&api.BuildResult{StatusURL: "https://builds.example.com/status/xyz"}, nil)

	_, err := f.run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong result variant")
}

func TestBuildResultExclusivity(t *testing.T) {
	both := &api.BuildResult{RegistrationURL: "a", StatusURL: "b"}
	assert.Error(t, both.Validate())

	neither := &api.BuildResult{}
	assert.Error(t, neither.Validate())

	one := &api.BuildResult{StatusURL: "b"}
	assert.NoError(t, one.Validate())
	assert.Equal(t, "b", one.URL())
}
