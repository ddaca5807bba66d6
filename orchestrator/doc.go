// Package orchestrator sequences a build provisioning run: eligibility
// gate, credential selection, tag-tracking persistence, device enrollment
// negotiation and build submission, accumulating disabled-service
// diagnostics along the way.
//
// The run is a strictly sequential pipeline of fallible steps. Each
// external call happens at most once; steps that mutate remote state are
// never retried here, so a hard failure aborts the whole run with nothing
// partial persisted or submitted. Soft steps (the configuration overlay,
// disabled-services bookkeeping) degrade and continue instead.
package orchestrator
