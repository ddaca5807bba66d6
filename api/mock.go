package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/standalone-apps/build-provisioner/interfaces"
)

// MockAuthProvider implements AuthProvider for testing.
// The behavior is determined by how the mock is configured in tests.
type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) Authenticate(ctx context.Context, opts AuthOptions) (*AuthResponse, error) {
	args := m.Called(ctx, opts)
	if v := args.Get(0); v != nil {
		return v.(*AuthResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthProvider) CurrentUser(ctx context.Context) (*interfaces.Identity, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*interfaces.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSigningAuthority implements SigningAuthority for testing.
type MockSigningAuthority struct {
	mock.Mock
}

func (m *MockSigningAuthority) EnsureAppExists(ctx context.Context, tctx interfaces.TeamContext, opts AppOptions) error {
	args := m.Called(ctx, tctx, opts)
	return args.Error(0)
}

func (m *MockSigningAuthority) LookupDistributionCert(ctx context.Context, tctx interfaces.TeamContext) (*DistributionCert, error) {
	args := m.Called(ctx, tctx)
	if v := args.Get(0); v != nil {
		return v.(*DistributionCert), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSigningAuthority) CreateDistributionCert(ctx context.Context, tctx interfaces.TeamContext) (*DistributionCert, error) {
	args := m.Called(ctx, tctx)
	if v := args.Get(0); v != nil {
		return v.(*DistributionCert), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSigningAuthority) LookupPushKey(ctx context.Context, tctx interfaces.TeamContext) (*PushKey, error) {
	args := m.Called(ctx, tctx)
	if v := args.Get(0); v != nil {
		return v.(*PushKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSigningAuthority) CreatePushKey(ctx context.Context, tctx interfaces.TeamContext) (*PushKey, error) {
	args := m.Called(ctx, tctx)
	if v := args.Get(0); v != nil {
		return v.(*PushKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSigningAuthority) ListDevices(ctx context.Context, tctx interfaces.TeamContext) ([]interfaces.DeviceRecord, error) {
	args := m.Called(ctx, tctx)
	if v := args.Get(0); v != nil {
		return v.([]interfaces.DeviceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBuildService implements BuildService for testing.
type MockBuildService struct {
	mock.Mock
}

func (m *MockBuildService) IsAllowedToBuild(ctx context.Context, username, teamID string) (*Allowance, error) {
	args := m.Called(ctx, username, teamID)
	if v := args.Get(0); v != nil {
		return v.(*Allowance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBuildService) Submit(ctx context.Context, req *BuildRequest) (*BuildResult, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*BuildResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCredentialStore implements CredentialStore for testing.
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) UpdateCredentials(ctx context.Context, platform interfaces.Platform, fields CredentialFields, keys CredentialKeys) error {
	args := m.Called(ctx, platform, fields, keys)
	return args.Error(0)
}

// MockPrompter implements Prompter for testing.
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	args := m.Called(question, defaultYes)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrompter) Input(question string, validate func(string) error) (string, error) {
	args := m.Called(question, validate)
	return args.String(0), args.Error(1)
}

// NullReporter is a Reporter that discards everything. Component tests use
// it when rendered output is irrelevant.
type NullReporter struct{}

func (NullReporter) Info(string)                        {}
func (NullReporter) Warn(string)                        {}
func (NullReporter) Table(string, []string, [][]string) {}
func (NullReporter) QR(string)                          {}

// RecordedTable is one table rendered through a RecordingReporter.
type RecordedTable struct {
	Title  string
	Header []string
	Rows   [][]string
}

// RecordingReporter captures rendered output for assertions.
type RecordingReporter struct {
	Infos    []string
	Warnings []string
	Tables   []RecordedTable
	QRs      []string
}

func (r *RecordingReporter) Info(msg string) { r.Infos = append(r.Infos, msg) }
func (r *RecordingReporter) Warn(msg string) { r.Warnings = append(r.Warnings, msg) }

func (r *RecordingReporter) Table(title string, header []string, rows [][]string) {
	r.Tables = append(r.Tables, RecordedTable{Title: title, Header: header, Rows: rows})
}

func (r *RecordingReporter) QR(url string) { r.QRs = append(r.QRs, url) }
