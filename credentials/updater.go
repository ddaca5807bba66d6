package credentials

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// Updater persists the dirty credentials of a run, and only those, in a
// single store call keyed by username, experience name and bundle
// identifier.
type Updater struct {
	Store api.CredentialStore
	Log   *slog.Logger
}

// UpdateAll merges all dirty credential fields into one payload and issues
// at most one store update, then returns the credentials re-tagged clean.
//
// Anonymous runs never touch the store: the material is used for this
// submission only and discarded afterwards. That is policy, not an
// oversight: credentials are never stored against an anonymous identity.
// When nothing is dirty the store is not called at all, which is what
// makes re-running against already-clean credentials a no-op.
func (u *Updater) UpdateAll(ctx context.Context, identity interfaces.Identity, tctx interfaces.TeamContext, platform interfaces.Platform, creds []Credential) ([]Credential, error) {
	if identity.IsAnonymous() {
		u.Log.Debug("Anonymous run: discarding credential tags without persistence")
		return cleanAll(creds), nil
	}

	merged := api.CredentialFields{}
	dirty := 0
	for _, c := range creds {
		if !c.IsDirty() {
			continue
		}
		dirty++
		for k, v := range c.Fields() {
			merged[k] = v
		}
	}

	if dirty == 0 {
		u.Log.Debug("No dirty credentials, skipping store update")
		return cleanAll(creds), nil
	}

	keys := api.CredentialKeys{
		Username:         identity.Username,
		ExperienceName:   tctx.ExperienceName.String(),
		BundleIdentifier: tctx.BundleIdentifier.String(),
	}
	if err := u.Store.UpdateCredentials(ctx, platform, merged, keys); err != nil {
		// Tags stay dirty so a later run can persist the material.
		return creds, fmt.Errorf("credential store update failed: %w", err)
	}

	u.Log.Info("Persisted credentials", "dirty", dirty, "experience", keys.ExperienceName)
	return cleanAll(creds), nil
}

func cleanAll(creds []Credential) []Credential {
	cleaned := make([]Credential, len(creds))
	for i, c := range creds {
		cleaned[i] = c.Cleaned()
	}
	return cleaned
}
