// Package credstore provides the credential store backends the
// provisioner can persist minted signing material to.
//
// Two backends are available:
//
//   - HTTPStore writes to the hosted credential service over its JSON
//     API. This is the default for operators using the hosted stack.
//   - VaultStore writes to a HashiCorp Vault KV v2 mount, for teams
//     that keep signing material inside their own Vault.
//
// FromURI selects a backend from a single configuration string, so the
// CLI surface needs just one flag:
//
//	https://credentials.example.com      -> HTTPStore
//	vault://vault.example.com:8200/secret/provisioner -> VaultStore
//
// Vault authentication uses the standard VAULT_TOKEN environment
// variable picked up by the Vault client library.
package credstore
