package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// EligibilityGate asks the build service whether a new build is currently
// permitted for the identity/team pair. A denial short-circuits the whole
// run before any credential or device work happens.
type EligibilityGate struct {
	Builds api.BuildService
	Log    *slog.Logger
}

// Check returns nil when a build is permitted. A refusal comes back as a
// BusinessDenialError carrying the service's reason verbatim; it is a
// terminal business decision and must not be retried.
func (g *EligibilityGate) Check(ctx context.Context, identity interfaces.Identity, teamID string) error {
	allowance, err := g.Builds.IsAllowedToBuild(ctx, identity.Username, teamID)
	if err != nil {
		return fmt.Errorf("eligibility query failed: %w", err)
	}
	if !allowance.IsAllowed {
		g.Log.Debug("Build denied by service", "reason", allowance.ErrorMessage)
		return &interfaces.BusinessDenialError{Reason: allowance.ErrorMessage}
	}
	return nil
}
