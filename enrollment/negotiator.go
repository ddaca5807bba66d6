package enrollment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/standalone-apps/build-provisioner/api"
	"github.com/standalone-apps/build-provisioner/interfaces"
)

// Decision is the terminal output of the negotiation.
type Decision struct {
	// DeviceIdentifiers are the device numbers currently registered to
	// the developer account.
	DeviceIdentifiers []string

	// RegisterNewDevice selects the registration-link result variant.
	RegisterNewDevice bool
}

// Negotiator runs the device enrollment state machine.
type Negotiator struct {
	Authority api.SigningAuthority
	Prompt    api.Prompter
	Report    api.Reporter
	Log       *slog.Logger
}

// Negotiate lists the registered devices and decides whether a new device
// must be registered. An empty list is a determinable prerequisite: the
// build cannot run anywhere, so registration is forced without prompting.
// Otherwise the operator sees the registered devices and answers, with the
// default being yes.
func (n *Negotiator) Negotiate(ctx context.Context, tctx interfaces.TeamContext) (Decision, error) {
	devices, err := n.Authority.ListDevices(ctx, tctx)
	if err != nil {
		return Decision{}, fmt.Errorf("device listing failed: %w", err)
	}

	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		ids = append(ids, d.DeviceNumber)
	}

	if len(devices) == 0 {
		n.Log.Info("No devices registered, new device registration is required")
		return Decision{DeviceIdentifiers: ids, RegisterNewDevice: true}, nil
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.Name, d.DeviceNumber})
	}
	n.Report.Table("Registered devices", []string{"Name", "Device Number"}, rows)

	register, err := n.Prompt.Confirm("Register a new device?", true)
	if err != nil {
		return Decision{}, err
	}

	return Decision{DeviceIdentifiers: ids, RegisterNewDevice: register}, nil
}
