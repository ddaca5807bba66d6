package api

import (
	"context"
	"errors"

	"github.com/standalone-apps/build-provisioner/interfaces"
	"github.com/standalone-apps/build-provisioner/overlay"
)

// AuthOptions carries the operator's credentials for the authentication
// provider.
type AuthOptions struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the authentication provider's answer to a successful
// login. It carries everything needed to derive the run's TeamContext.
type AuthResponse struct {
	Team struct {
		ID string `json:"id"`
	} `json:"team"`
	AppleID         string `json:"apple_id"`
	AppleIDPassword string `json:"apple_id_password"`
}

// AuthProvider abstracts the identity and authentication service.
type AuthProvider interface {
	// Authenticate logs in against the signing authority account and
	// returns the team attributes for this run.
	Authenticate(ctx context.Context, opts AuthOptions) (*AuthResponse, error)

	// CurrentUser returns the authenticated identity, or nil when the
	// actor is anonymous.
	CurrentUser(ctx context.Context) (*interfaces.Identity, error)
}

// DeriveTeamContext turns a login response and the (possibly anonymous)
// identity into the immutable per-run team context.
func DeriveTeamContext(identity interfaces.Identity, resp *AuthResponse) (interfaces.TeamContext, error) {
	bundleID, err := interfaces.NewBundleIdentifier(resp.Team.ID)
	if err != nil {
		return interfaces.TeamContext{}, err
	}
	experience, err := interfaces.NewExperienceName(identity, resp.Team.ID)
	if err != nil {
		return interfaces.TeamContext{}, err
	}
	return interfaces.TeamContext{
		TeamID:           resp.Team.ID,
		AppleID:          resp.AppleID,
		AppleIDPassword:  resp.AppleIDPassword,
		BundleIdentifier: bundleID,
		ExperienceName:   experience,
		Username:         identity.Username,
	}, nil
}

// AppOptions configures the idempotent remote app registration upsert.
type AppOptions struct {
	EnablePushNotifications bool `json:"enable_push_notifications"`
}

// DistributionCert is the signing certificate material as stored and
// transported. The PKCS#12 blob and key material are opaque to this core.
type DistributionCert struct {
	CertP12      string `json:"cert_p12"`
	CertPassword string `json:"cert_password"`
	SerialNumber string `json:"serial_number,omitempty"`
}

// PushKey is the push-notification signing key material.
type PushKey struct {
	KeyID  string `json:"key_id"`
	TeamID string `json:"team_id"`
	KeyP8  string `json:"key_p8"`
}

// SigningAuthority abstracts the certificate, push-key and device
// operations of the platform signing service. Lookups return
// interfaces.ErrCredentialNotFound when nothing is on file.
type SigningAuthority interface {
	EnsureAppExists(ctx context.Context, tctx interfaces.TeamContext, opts AppOptions) error

	LookupDistributionCert(ctx context.Context, tctx interfaces.TeamContext) (*DistributionCert, error)
	CreateDistributionCert(ctx context.Context, tctx interfaces.TeamContext) (*DistributionCert, error)

	LookupPushKey(ctx context.Context, tctx interfaces.TeamContext) (*PushKey, error)
	CreatePushKey(ctx context.Context, tctx interfaces.TeamContext) (*PushKey, error)

	ListDevices(ctx context.Context, tctx interfaces.TeamContext) ([]interfaces.DeviceRecord, error)
}

// Allowance is the build service's eligibility verdict.
type Allowance struct {
	IsAllowed    bool   `json:"is_allowed"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// BuildRequest is the final payload submitted to the build service.
// Constructed exactly once per run, immutable, sent exactly once.
type BuildRequest struct {
	User              string              `json:"user,omitempty"`
	TeamID            string              `json:"team_id"`
	BundleIdentifier  string              `json:"bundle_identifier"`
	ExperienceName    string              `json:"experience_name"`
	Platform          interfaces.Platform `json:"platform"`
	DistributionCert  *DistributionCert   `json:"distribution_cert,omitempty"`
	PushKey           *PushKey            `json:"push_key,omitempty"`
	DeviceIdentifiers []string            `json:"device_identifiers"`
	RegisterNewDevice bool                `json:"register_new_device"`
	NotifyEmail       string              `json:"notify_email"`
	Overlay           *overlay.Overlay    `json:"overlay,omitempty"`
	ArchiveURL        string              `json:"archive_url,omitempty"`
}

// BuildResult is the build service's answer: exactly one of the two URLs
// is populated, matching the RegisterNewDevice flag mirrored back by the
// service.
type BuildResult struct {
	RegistrationURL string `json:"registration_url,omitempty"`
	StatusURL       string `json:"status_url,omitempty"`
}

// Validate checks the variant exclusivity of the result.
func (r *BuildResult) Validate() error {
	if (r.RegistrationURL == "") == (r.StatusURL == "") {
		return errors.New("build result must carry exactly one of registration_url and status_url")
	}
	return nil
}

// URL returns whichever variant is populated.
func (r *BuildResult) URL() string {
	if r.RegistrationURL != "" {
		return r.RegistrationURL
	}
	return r.StatusURL
}

// BuildService abstracts the remote build submission API.
type BuildService interface {
	// IsAllowedToBuild queries whether a new build is currently permitted
	// for the identity/team pair. The verdict is a business decision, not
	// a fault; transport errors are returned as errors.
	IsAllowedToBuild(ctx context.Context, username, teamID string) (*Allowance, error)

	// Submit sends the assembled build request. Single call, no internal
	// retry: duplicate submissions are worse than a surfaced failure.
	Submit(ctx context.Context, req *BuildRequest) (*BuildResult, error)
}

// CredentialKeys identify the credential record a store update targets.
type CredentialKeys struct {
	Username         string `json:"username"`
	ExperienceName   string `json:"experience_name"`
	BundleIdentifier string `json:"bundle_identifier"`
}

// CredentialFields is the merged set of credential fields persisted by a
// single store update.
type CredentialFields map[string]string

// CredentialStore abstracts the remote credential store. One update call
// carries all dirty credential fields for a platform.
type CredentialStore interface {
	UpdateCredentials(ctx context.Context, platform interfaces.Platform, fields CredentialFields, keys CredentialKeys) error
}

// Prompter abstracts operator questions. Both calls block until the
// operator answers; cancellation happens only through process
// interruption.
type Prompter interface {
	// Confirm asks a yes/no question with the given default answer.
	Confirm(question string, defaultYes bool) (bool, error)

	// Input asks for a single line, re-prompting until validate accepts
	// the answer. Validation failures never escape the prompt loop.
	Input(question string, validate func(string) error) (string, error)
}

// Reporter is the narrow rendering surface the orchestration core calls
// into, so the core stays testable without a terminal.
type Reporter interface {
	Info(msg string)
	Warn(msg string)
	Table(title string, header []string, rows [][]string)

	// QR renders a scannable link. Side effect only.
	QR(url string)
}
