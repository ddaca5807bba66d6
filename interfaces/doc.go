// Package interfaces defines the core domain types shared by the build
// provisioning components: identities, team contexts, device records and
// the error taxonomy. It provides the contract between components without
// implementation details.
package interfaces
