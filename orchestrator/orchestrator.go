package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/credentials"
	"github.com/standalone-apps/build-provisioner/enrollment"
	"github.com/standalone-apps/build-provisioner/interfaces"
	"github.com/standalone-apps/build-provisioner/overlay"
)

// Service names used in the disabled-services report.
const (
	ServiceGoogleMaps        = "Google Maps"
	ServicePushNotifications = "Push Notifications"
)

var emailRegex = regexp.MustCompile(`.+@.+`)

// Config carries the per-run inputs of an orchestration.
type Config struct {
	Platform    interfaces.Platform
	OverlayPath string

	// ArchiveURL points at a previously published project archive.
	// Optional; empty means the build service uses its default source.
	ArchiveURL string

	Auth api.AuthOptions
}

// Orchestrator wires the provisioning components to their collaborators
// and runs the sequential pipeline. It owns the run-scoped accumulators
// (team context, disabled-services report); every other component receives
// read-only views and returns new immutable values.
type Orchestrator struct {
	Auth      api.AuthProvider
	Authority api.SigningAuthority
	Builds    api.BuildService
	Store     api.CredentialStore
	Prompt    api.Prompter
	Report    api.Reporter
	Log       *slog.Logger
}

// Run executes the provisioning pipeline and renders the outcome. Hard
// failures abort with nothing partial persisted or submitted; an
// eligibility refusal comes back as a BusinessDenialError.
func (o *Orchestrator) Run(ctx context.Context, cfg Config) (*api.BuildResult, error) {
	r := &run{
		o:        o,
		cfg:      cfg,
		disabled: NewDisabledServicesReport(),
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"load configuration overlay", r.loadOverlay},
		{"resolve identity", r.resolveIdentity},
		{"authenticate", r.authenticate},
		{"check eligibility", r.checkEligibility},
		{"ensure app registration", r.ensureApp},
		{"select credentials", r.selectCredentials},
		{"record disabled services", r.recordDisabledServices},
		{"persist credentials", r.persistCredentials},
		{"resolve notification email", r.resolveNotifyEmail},
		{"negotiate device enrollment", r.negotiateEnrollment},
		{"submit build request", r.submit},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			if interfaces.IsBusinessDenial(err) {
				return nil, err
			}
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	r.render()
	return r.result, nil
}

// run holds the mutable state of a single orchestration. Each step reads
// the outputs of the previous ones and writes its own.
type run struct {
	o   *Orchestrator
	cfg Config

	identity interfaces.Identity
	tctx     interfaces.TeamContext
	overlay  *overlay.Overlay
	cert     credentials.Credential
	pushKey  credentials.Credential
	disabled *DisabledServicesReport

	notifyEmail string
	decision    enrollment.Decision
	result      *api.BuildResult
}

// loadOverlay is best-effort: a missing file only disables optional
// features, and a malformed one degrades the run rather than aborting it.
func (r *run) loadOverlay(context.Context) error {
	o, err := overlay.Load(r.cfg.OverlayPath)
	if err != nil {
		r.o.Log.Warn("Ignoring unusable configuration overlay", "err", err)
		r.disabled.Disable(ServiceGoogleMaps, fmt.Sprintf("configuration overlay could not be read: %v", err))
		return nil
	}
	r.overlay = o
	return nil
}

func (r *run) resolveIdentity(ctx context.Context) error {
	user, err := r.o.Auth.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("identity lookup failed: %w", err)
	}
	if user == nil {
		r.o.Log.Debug("No authenticated user, running anonymously")
		return nil
	}
	r.identity = *user
	return nil
}

func (r *run) authenticate(ctx context.Context) error {
	resp, err := r.o.Auth.Authenticate(ctx, r.cfg.Auth)
	if err != nil {
		return err
	}

	tctx, err := api.DeriveTeamContext(r.identity, resp)
	if err != nil {
		return err
	}
	r.tctx = tctx
	r.o.Log.Debug("Derived team context",
		slog.String("teamID", r.tctx.TeamID),
		slog.String("bundleIdentifier", r.tctx.BundleIdentifier.String()),
		slog.String("experienceName", r.tctx.ExperienceName.String()))
	return nil
}

func (r *run) checkEligibility(ctx context.Context) error {
	gate := &EligibilityGate{Builds: r.o.Builds, Log: r.o.Log}
	return gate.Check(ctx, r.identity, r.tctx.TeamID)
}

// ensureApp is an idempotent upsert against the signing authority, safe to
// call every run.
func (r *run) ensureApp(ctx context.Context) error {
	return r.o.Authority.EnsureAppExists(ctx, r.tctx, api.AppOptions{EnablePushNotifications: true})
}

// selectCredentials resolves the certificate before the push key: a
// missing push key only degrades notifications, a missing certificate does
// not get that grace.
func (r *run) selectCredentials(ctx context.Context) error {
	sel := &credentials.Selector{Authority: r.o.Authority, Prompt: r.o.Prompt, Log: r.o.Log}

	cert, err := sel.SelectDistributionCert(ctx, r.tctx)
	if err != nil {
		return err
	}
	r.cert = cert

	key, err := sel.SelectPushKey(ctx, r.tctx)
	if err != nil {
		return err
	}
	r.pushKey = key
	return nil
}

func (r *run) recordDisabledServices(context.Context) error {
	if r.overlay == nil {
		r.disabled.Disable(ServiceGoogleMaps, "no configuration overlay found")
	} else if r.overlay.GoogleMapsAPIKey == "" {
		r.disabled.Disable(ServiceGoogleMaps, "google_maps_api_key missing from the configuration overlay")
	}

	switch {
	case r.identity.IsAnonymous():
		r.disabled.Disable(ServicePushNotifications, "anonymous actors cannot store push credentials")
	case r.pushKey.IsAbsent():
		r.disabled.Disable(ServicePushNotifications, "no push key was obtained")
	}
	return nil
}

func (r *run) persistCredentials(ctx context.Context) error {
	updater := &credentials.Updater{Store: r.o.Store, Log: r.o.Log}
	cleaned, err := updater.UpdateAll(ctx, r.identity, r.tctx, r.cfg.Platform,
		[]credentials.Credential{r.cert, r.pushKey})
	if err != nil {
		return err
	}
	r.cert, r.pushKey = cleaned[0], cleaned[1]
	return nil
}

func (r *run) resolveNotifyEmail(context.Context) error {
	if r.identity.Email != "" {
		r.notifyEmail = r.identity.Email
		return nil
	}
	email, err := r.o.Prompt.Input("E-mail address for build notifications:", func(answer string) error {
		if !emailRegex.MatchString(answer) {
			return fmt.Errorf("%q does not look like an e-mail address", answer)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.notifyEmail = email
	return nil
}

func (r *run) negotiateEnrollment(ctx context.Context) error {
	n := &enrollment.Negotiator{
		Authority: r.o.Authority,
		Prompt:    r.o.Prompt,
		Report:    r.o.Report,
		Log:       r.o.Log,
	}
	decision, err := n.Negotiate(ctx, r.tctx)
	if err != nil {
		return err
	}
	r.decision = decision
	return nil
}

func (r *run) submit(ctx context.Context) error {
	req := r.buildRequest()
	result, err := r.o.Builds.Submit(ctx, req)
	if err != nil {
		return err
	}
	if err := result.Validate(); err != nil {
		return err
	}
	if (result.RegistrationURL != "") != r.decision.RegisterNewDevice {
		return fmt.Errorf("build service returned the wrong result variant for register_new_device=%t", r.decision.RegisterNewDevice)
	}
	r.result = result
	return nil
}

// buildRequest assembles the final payload. Called exactly once, right
// before the single submission.
func (r *run) buildRequest() *api.BuildRequest {
	return &api.BuildRequest{
		User:              r.identity.Username,
		TeamID:            r.tctx.TeamID,
		BundleIdentifier:  r.tctx.BundleIdentifier.String(),
		ExperienceName:    r.tctx.ExperienceName.String(),
		Platform:          r.cfg.Platform,
		DistributionCert:  r.cert.DistributionCert(),
		PushKey:           r.pushKey.PushKey(),
		DeviceIdentifiers: r.decision.DeviceIdentifiers,
		RegisterNewDevice: r.decision.RegisterNewDevice,
		NotifyEmail:       r.notifyEmail,
		Overlay:           r.overlay,
		ArchiveURL:        r.cfg.ArchiveURL,
	}
}

func (r *run) render() {
	r.disabled.Render(r.o.Report)

	if r.result.RegistrationURL != "" {
		r.o.Report.Info("Scan this QR code to register your device and install the build:")
		r.o.Report.QR(r.result.RegistrationURL)
		r.o.Report.Info(r.result.RegistrationURL)
		return
	}
	r.o.Report.Info("Build queued. Track progress at:")
	r.o.Report.Info(r.result.StatusURL)
}
