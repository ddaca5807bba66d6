// Package api defines the wire types exchanged with the external build
// collaborators and the provider interfaces the orchestration core consumes.
//
// The orchestrator never talks to a concrete transport: every remote
// collaborator (authentication provider, signing authority, build service,
// credential store) and every operator-facing surface (prompting, tables,
// QR rendering) is reached through an interface declared here. HTTP
// implementations live in the clients and credstore packages; testify
// mocks for all providers live in mock.go so component tests share one set
// of doubles.
package api
