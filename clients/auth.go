package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// AuthClient talks to the authentication and identity provider.
type AuthClient struct {
	// ServerAddr is the base URL of the authentication service.
	ServerAddr string

	// HTTPClient overrides http.DefaultClient, mainly for tests.
	HTTPClient *http.Client
}

// Authenticate logs in with the operator's account credentials and returns
// the team attributes for the run.
func (c *AuthClient) Authenticate(ctx context.Context, opts api.AuthOptions) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	_, err := doJSON(ctx, c.HTTPClient, http.MethodPost,
		fmt.Sprintf("%s/api/v2/auth/login", c.ServerAddr), opts, &resp)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return &resp, nil
}

// CurrentUser returns the authenticated identity, or nil when the service
// answers 204 (anonymous actor).
func (c *AuthClient) CurrentUser(ctx context.Context) (*interfaces.Identity, error) {
	var id interfaces.Identity
	status, err := doJSON(ctx, c.HTTPClient, http.MethodGet,
		fmt.Sprintf("%s/api/v2/auth/user", c.ServerAddr), nil, &id)
	if err != nil {
		return nil, fmt.Errorf("identity lookup failed: %w", err)
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &id, nil
}
