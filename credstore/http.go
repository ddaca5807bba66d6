package credstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// HTTPStore persists credentials to the hosted credential service.
type HTTPStore struct {
	// ServerAddr is the base URL of the credential service.
	ServerAddr string

	// HTTPClient overrides http.DefaultClient, mainly for tests.
	HTTPClient *http.Client

	Log *slog.Logger
}

type updateRequest struct {
	Keys   api.CredentialKeys   `json:"keys"`
	Fields api.CredentialFields `json:"fields"`
}

// UpdateCredentials PUTs the merged dirty fields for the platform in a
// single request.
func (s *HTTPStore) UpdateCredentials(ctx context.Context, platform interfaces.Platform, fields api.CredentialFields, keys api.CredentialKeys) error {
	encoded, err := json.Marshal(updateRequest{Keys: keys, Fields: fields})
	if err != nil {
		return fmt.Errorf("could not encode credential update: %w", err)
	}

	url := fmt.Sprintf("%s/api/v2/credentials/%s", s.ServerAddr, platform)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("could not request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned error %d: %s", url, resp.StatusCode, string(msg))
	}

	if s.Log != nil {
		s.Log.Debug("Updated remote credentials",
			slog.String("platform", string(platform)),
			slog.Int("fields", len(fields)))
	}
	return nil
}
