// Package enrollment decides whether a new device must be registered
// before a provisioned build can run. It is a two-state negotiation:
// listing the devices already registered with the signing authority, then
// either forcing registration (empty list) or deferring to the operator.
// The decision is not cosmetic: it selects which result variant the build
// service produces (a registration link versus a status link).
package enrollment
