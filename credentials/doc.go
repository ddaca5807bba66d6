// Package credentials implements credential selection and persistence for
// a provisioning run.
//
// Each credential is an immutable tagged variant: Absent (not obtained),
// Clean (reused unchanged, nothing to persist) or Dirty (freshly minted
// this run, must be persisted exactly once). The Selector produces tagged
// values; the Updater consumes them, persisting only the dirty ones in a
// single store call. The tagging discipline is what makes re-runs
// idempotent: there is no locking anywhere in this flow, so safety against
// duplicate persistence rests entirely on clean credentials never reaching
// the store.
package credentials
