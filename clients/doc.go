// Package clients implements the HTTP clients for the remote build
// collaborators: the authentication provider, the signing authority and
// the build service. Each client is a thin transport wrapper over the
// interfaces declared in the api package; non-2xx responses are folded
// into the returned error with the server's message, and no client ever
// retries; retry policy belongs to the remote side.
package clients
