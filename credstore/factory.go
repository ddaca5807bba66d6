package credstore

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/standalone-apps/build-provisioner/api"
)

// FromURI selects a credential store backend from a location URI.
//
//	https://host or http://host             -> HTTPStore
//	vault://host:port/<mount>/<data-path>   -> VaultStore (HTTPS transport)
func FromURI(uri string, log *slog.Logger) (api.CredentialStore, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid credential store URI %q: %w", uri, err)
	}

	switch parsed.Scheme {
	case "http", "https":
		return &HTTPStore{ServerAddr: strings.TrimSuffix(uri, "/"), Log: log}, nil
	case "vault":
		segments := strings.SplitN(strings.Trim(parsed.Path, "/"), "/", 2)
		if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
			return nil, fmt.Errorf("vault URI %q must be vault://host:port/<mount>/<data-path>", uri)
		}
		return NewVaultStore("https://"+parsed.Host, segments[0], segments[1], log)
	default:
		return nil, fmt.Errorf("unsupported credential store scheme %q", parsed.Scheme)
	}
}
