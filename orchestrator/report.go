package orchestrator

import (
	"github.com/standalone-apps/build-provisioner/api"
)

// DisabledServicesReport accumulates the optional features a run could not
// enable and the human-readable reason for each. Entries are append-only
// and a service appears at most once; the report is rendered a single time
// at the end of the run.
type DisabledServicesReport struct {
	order   []string
	reasons map[string]string
}

// NewDisabledServicesReport returns an empty report.
func NewDisabledServicesReport() *DisabledServicesReport {
	return &DisabledServicesReport{reasons: map[string]string{}}
}

// Disable records a disabled service. The first recorded reason wins;
// later calls for the same service are ignored.
func (r *DisabledServicesReport) Disable(service, reason string) {
	if _, ok := r.reasons[service]; ok {
		return
	}
	r.order = append(r.order, service)
	r.reasons[service] = reason
}

// Empty reports whether no service was disabled.
func (r *DisabledServicesReport) Empty() bool {
	return len(r.order) == 0
}

// Reason returns the recorded reason for a service, if any.
func (r *DisabledServicesReport) Reason(service string) (string, bool) {
	reason, ok := r.reasons[service]
	return reason, ok
}

// Render writes the report through the reporter, in insertion order.
func (r *DisabledServicesReport) Render(rep api.Reporter) {
	if r.Empty() {
		return
	}
	rows := make([][]string, 0, len(r.order))
	for _, service := range r.order {
		rows = append(rows, []string{service, r.reasons[service]})
	}
	rep.Warn("Some optional services are disabled for this build:")
	rep.Table("Disabled services", []string{"Service", "Reason"}, rows)
}
