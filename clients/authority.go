package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// SigningAuthorityClient talks to the platform signing service: app
// registration upserts, credential lookup and minting, device listing.
type SigningAuthorityClient struct {
	// ServerAddr is the base URL of the signing authority integration.
	ServerAddr string

	// HTTPClient overrides http.DefaultClient, mainly for tests.
	HTTPClient *http.Client
}

type ensureAppRequest struct {
	TeamID                  string `json:"team_id"`
	BundleIdentifier        string `json:"bundle_identifier"`
	ExperienceName          string `json:"experience_name"`
	EnablePushNotifications bool   `json:"enable_push_notifications"`
}

// EnsureAppExists upserts the remote app registration. The endpoint is
// idempotent, so calling it every run is safe.
func (c *SigningAuthorityClient) EnsureAppExists(ctx context.Context, tctx interfaces.TeamContext, opts api.AppOptions) error {
	body := ensureAppRequest{
		TeamID:                  tctx.TeamID,
		BundleIdentifier:        tctx.BundleIdentifier.String(),
		ExperienceName:          tctx.ExperienceName.String(),
		EnablePushNotifications: opts.EnablePushNotifications,
	}
	_, err := doJSON(ctx, c.HTTPClient, http.MethodPost,
		fmt.Sprintf("%s/api/v2/apps/ensure", c.ServerAddr), body, nil)
	if err != nil {
		return fmt.Errorf("app registration upsert failed: %w", err)
	}
	return nil
}

// LookupDistributionCert fetches the distribution certificate on file.
// A 404 means nothing is on file and maps to ErrCredentialNotFound.
func (c *SigningAuthorityClient) LookupDistributionCert(ctx context.Context, tctx interfaces.TeamContext) (*api.DistributionCert, error) {
	var cert api.DistributionCert
	status, err := doJSON(ctx, c.HTTPClient, http.MethodGet,
		c.credentialURL("distribution-cert", tctx), nil, &cert)
	if status == http.StatusNotFound {
		return nil, interfaces.ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// CreateDistributionCert asks the authority to mint a new distribution
// certificate for the team.
func (c *SigningAuthorityClient) CreateDistributionCert(ctx context.Context, tctx interfaces.TeamContext) (*api.DistributionCert, error) {
	var cert api.DistributionCert
	_, err := doJSON(ctx, c.HTTPClient, http.MethodPost,
		c.credentialURL("distribution-cert", tctx), nil, &cert)
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// LookupPushKey fetches the push key on file, mapping 404 to
// ErrCredentialNotFound.
func (c *SigningAuthorityClient) LookupPushKey(ctx context.Context, tctx interfaces.TeamContext) (*api.PushKey, error) {
	var key api.PushKey
	status, err := doJSON(ctx, c.HTTPClient, http.MethodGet,
		c.credentialURL("push-key", tctx), nil, &key)
	if status == http.StatusNotFound {
		return nil, interfaces.ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// CreatePushKey asks the authority to mint a new push key for the team.
func (c *SigningAuthorityClient) CreatePushKey(ctx context.Context, tctx interfaces.TeamContext) (*api.PushKey, error) {
	var key api.PushKey
	_, err := doJSON(ctx, c.HTTPClient, http.MethodPost,
		c.credentialURL("push-key", tctx), nil, &key)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

type deviceListResponse struct {
	Devices []interfaces.DeviceRecord `json:"devices"`
}

// ListDevices returns the devices registered to the developer account.
func (c *SigningAuthorityClient) ListDevices(ctx context.Context, tctx interfaces.TeamContext) ([]interfaces.DeviceRecord, error) {
	var resp deviceListResponse
	_, err := doJSON(ctx, c.HTTPClient, http.MethodGet,
		fmt.Sprintf("%s/api/v2/devices?team_id=%s", c.ServerAddr, url.QueryEscape(tctx.TeamID)), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

func (c *SigningAuthorityClient) credentialURL(kind string, tctx interfaces.TeamContext) string {
	return fmt.Sprintf("%s/api/v2/credentials/%s?team_id=%s&bundle_identifier=%s",
		c.ServerAddr, kind, url.QueryEscape(tctx.TeamID), url.QueryEscape(tctx.BundleIdentifier.String()))
}
