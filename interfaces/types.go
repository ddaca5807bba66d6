package interfaces

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Platform identifies the target mobile platform of a build.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// NewPlatform validates a platform string.
func NewPlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case PlatformIOS:
		return PlatformIOS, nil
	case PlatformAndroid:
		return PlatformAndroid, nil
	default:
		return "", fmt.Errorf("unsupported platform: %q", s)
	}
}

// String returns the platform as a string.
func (p Platform) String() string {
	return string(p)
}

// Identity is the optional authenticated principal for a run. The zero
// value denotes an anonymous actor. Immutable for the duration of a run.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// IsAnonymous reports whether no principal is authenticated.
func (id Identity) IsAnonymous() bool {
	return id.Username == ""
}

// BundleIdentifier is the reverse-DNS identifier of the provisioned app.
type BundleIdentifier string

var bundleIDRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*(\.[a-zA-Z][a-zA-Z0-9-]*)+$`)

// NewBundleIdentifier derives the deterministic bundle identifier for a
// team. The same team id always yields the same identifier, so the remote
// app registration upsert is safe to repeat every run.
func NewBundleIdentifier(teamID string) (BundleIdentifier, error) {
	clean := sanitizeToken(teamID)
	if clean == "" {
		return "", errors.New("team id contains no usable characters")
	}
	id := BundleIdentifier("dev.standalone." + clean)
	if !bundleIDRegex.MatchString(string(id)) {
		return "", fmt.Errorf("derived bundle identifier %q is invalid", id)
	}
	return id, nil
}

// String returns the bundle identifier as a string.
func (b BundleIdentifier) String() string {
	return string(b)
}

// Validate checks the bundle identifier format.
func (b BundleIdentifier) Validate() error {
	if !bundleIDRegex.MatchString(string(b)) {
		return fmt.Errorf("invalid bundle identifier: %q", b)
	}
	return nil
}

// ExperienceName is the @account/slug pair that keys the app and its
// stored credentials.
type ExperienceName string

// AnonymousAccount is the account segment used when no identity is
// authenticated.
const AnonymousAccount = "anonymous"

// NewExperienceName derives the experience name from the run identity and
// team id. Anonymous runs fall under the shared anonymous account.
func NewExperienceName(id Identity, teamID string) (ExperienceName, error) {
	account := id.Username
	if account == "" {
		account = AnonymousAccount
	}
	slug := sanitizeToken(teamID)
	if slug == "" {
		return "", errors.New("team id contains no usable characters")
	}
	return ExperienceName(fmt.Sprintf("@%s/app-%s", account, slug)), nil
}

// String returns the experience name as a string.
func (e ExperienceName) String() string {
	return string(e)
}

// Account returns the account segment of the experience name.
func (e ExperienceName) Account() string {
	s := strings.TrimPrefix(string(e), "@")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// TeamContext carries the per-run team attributes. Derived once from the
// authentication output, read-only afterward.
type TeamContext struct {
	TeamID           string
	AppleID          string
	AppleIDPassword  string
	BundleIdentifier BundleIdentifier
	ExperienceName   ExperienceName

	// Username is empty for anonymous runs.
	Username string
}

// DeviceRecord describes a device registered with the signing authority.
type DeviceRecord struct {
	Name         string `json:"name"`
	DeviceNumber string `json:"device_number"`
}

var nonToken = regexp.MustCompile(`[^a-z0-9]+`)

func sanitizeToken(s string) string {
	return strings.Trim(nonToken.ReplaceAllString(strings.ToLower(s), ""), "-")
}
