package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// Selector resolves distribution certificates and push keys for a run:
// reuse what the signing authority has on file, or mint new material with
// the operator's consent. The two selections are independent.
type Selector struct {
	Authority api.SigningAuthority
	Prompt    api.Prompter
	Log       *slog.Logger
}

// SelectDistributionCert resolves the distribution certificate.
// Outcomes: an existing certificate is reused (clean); the operator
// declines to create one (absent); a new one is minted (dirty). Authority
// or transport failures abort the run; nothing partial is persisted.
func (s *Selector) SelectDistributionCert(ctx context.Context, tctx interfaces.TeamContext) (Credential, error) {
	cert, err := s.Authority.LookupDistributionCert(ctx, tctx)
	if err == nil {
		s.Log.Debug("Reusing distribution certificate on file", "serial", cert.SerialNumber)
		return CleanCert(cert), nil
	}
	if !errors.Is(err, interfaces.ErrCredentialNotFound) {
		return Absent(KindDistributionCert), fmt.Errorf("distribution certificate lookup failed: %w", err)
	}

	ok, err := s.Prompt.Confirm("No distribution certificate on file. Create one now?", true)
	if err != nil {
		return Absent(KindDistributionCert), err
	}
	if !ok {
		s.Log.Debug("Operator declined distribution certificate creation")
		return Absent(KindDistributionCert), nil
	}

	created, err := s.Authority.CreateDistributionCert(ctx, tctx)
	if err != nil {
		return Absent(KindDistributionCert), fmt.Errorf("distribution certificate creation failed: %w", err)
	}
	s.Log.Info("Created distribution certificate", "serial", created.SerialNumber)
	return DirtyCert(created), nil
}

// SelectPushKey resolves the push-notification key. Same outcomes as
// SelectDistributionCert; a declined or missing key only degrades
// notifications, the caller records that and continues.
func (s *Selector) SelectPushKey(ctx context.Context, tctx interfaces.TeamContext) (Credential, error) {
	key, err := s.Authority.LookupPushKey(ctx, tctx)
	if err == nil {
		s.Log.Debug("Reusing push key on file", "keyID", key.KeyID)
		return CleanPushKey(key), nil
	}
	if !errors.Is(err, interfaces.ErrCredentialNotFound) {
		return Absent(KindPushKey), fmt.Errorf("push key lookup failed: %w", err)
	}

	ok, err := s.Prompt.Confirm("No push key on file. Create one now? (declining disables push notifications)", true)
	if err != nil {
		return Absent(KindPushKey), err
	}
	if !ok {
		s.Log.Debug("Operator declined push key creation")
		return Absent(KindPushKey), nil
	}

	created, err := s.Authority.CreatePushKey(ctx, tctx)
	if err != nil {
		return Absent(KindPushKey), fmt.Errorf("push key creation failed: %w", err)
	}
	s.Log.Info("Created push key", "keyID", created.KeyID)
	return DirtyPushKey(created), nil
}
