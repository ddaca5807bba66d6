package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/standalone-apps/build-provisioner/api"
)

// BuildServiceClient talks to the remote build submission API.
type BuildServiceClient struct {
	// ServerAddr is the base URL of the build service.
	ServerAddr string

	// HTTPClient overrides http.DefaultClient, mainly for tests.
	HTTPClient *http.Client
}

// IsAllowedToBuild queries the build allowance for the identity/team pair.
// The verdict travels in the response body; only transport problems are
// errors here.
func (c *BuildServiceClient) IsAllowedToBuild(ctx context.Context, username, teamID string) (*api.Allowance, error) {
	var allowance api.Allowance
	_, err := doJSON(ctx, c.HTTPClient, http.MethodGet,
		fmt.Sprintf("%s/api/v2/builds/allowance?username=%s&team_id=%s",
			c.ServerAddr, url.QueryEscape(username), url.QueryEscape(teamID)), nil, &allowance)
	if err != nil {
		return nil, err
	}
	return &allowance, nil
}

// Submit sends the assembled build request. One call, no retry: a
// duplicate submission is a worse failure mode than a surfaced error.
func (c *BuildServiceClient) Submit(ctx context.Context, req *api.BuildRequest) (*api.BuildResult, error) {
	var result api.BuildResult
	_, err := doJSON(ctx, c.HTTPClient, http.MethodPost,
		fmt.Sprintf("%s/api/v2/builds", c.ServerAddr), req, &result)
	if err != nil {
		return nil, fmt.Errorf("build submission failed: %w", err)
	}
	return &result, nil
}
