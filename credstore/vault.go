package credstore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"

	coreapi "github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// VaultStore persists credentials to a HashiCorp Vault KV v2 mount.
// Authentication relies on the Vault client's standard environment
// handling (VAULT_TOKEN and friends).
type VaultStore struct {
	client    *vault.Client
	mountPath string
	dataPath  string
	log       *slog.Logger
}

// NewVaultStore creates a Vault-backed credential store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount path (e.g. "secret")
//   - dataPath: Path prefix within the mount (e.g. "provisioner")
//   - log: Structured logger for operational insights
func NewVaultStore(address, mountPath, dataPath string, log *slog.Logger) (*VaultStore, error) {
	config := vault.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{Timeout: 30 * time.Second}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	mountPath = strings.TrimSuffix(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultStore{
		client:    client,
		mountPath: mountPath,
		dataPath:  dataPath,
		log:       log,
	}, nil
}

// UpdateCredentials writes the merged fields as one KV v2 secret. The
// secret path is keyed by platform and bundle identifier so per-app
// credential sets never collide.
func (s *VaultStore) UpdateCredentials(ctx context.Context, platform interfaces.Platform, fields coreapi.CredentialFields, keys coreapi.CredentialKeys) error {
	start := time.Now()

	// Vault KV v2 path structure
	path := fmt.Sprintf("%s/data/%s/%s/%s", s.mountPath, s.dataPath, platform, keys.BundleIdentifier)

	data := map[string]interface{}{}
	for k, v := range fields {
		data[k] = v
	}
	data["username"] = keys.Username
	data["experience_name"] = keys.ExperienceName

	secretData := map[string]interface{}{
		"data": data,
	}

	_, err := s.client.Logical().WriteWithContext(ctx, path, secretData)
	if err != nil {
		s.log.Error("Failed to write credentials to Vault",
			slog.String("path", path),
			"err", err)
		return fmt.Errorf("vault credential update failed: %w", err)
	}

	s.log.Info("Stored credentials in Vault",
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Available checks whether the Vault server is initialized and unsealed.
func (s *VaultStore) Available(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := s.client.Sys().HealthWithContext(healthCtx)
	if err != nil {
		s.log.Debug("Vault health check failed", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}
