package credentials

import (
	"github.com/standalone-apps/build-provisioner/api"
)

// Tag records whether a credential needs persistence.
type Tag int

const (
	// TagAbsent marks a credential that was not obtained.
	TagAbsent Tag = iota

	// TagClean marks a reused credential. Requires no persistence.
	TagClean

	// TagDirty marks a credential minted or changed this run. Must be
	// persisted exactly once.
	TagDirty
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagClean:
		return "clean"
	case TagDirty:
		return "dirty"
	default:
		return "absent"
	}
}

// Kind identifies the credential variant.
type Kind string

const (
	KindDistributionCert Kind = "distribution_cert"
	KindPushKey          Kind = "push_key"
)

// Credential is an immutable tagged credential value. The zero value is an
// absent credential. Tag transitions happen by constructing new values
// (Cleaned), never by mutation, so the Updater's dirty filter is a pure
// function.
type Credential struct {
	kind    Kind
	tag     Tag
	cert    *api.DistributionCert
	pushKey *api.PushKey
}

// Absent returns the not-obtained credential of the given kind.
func Absent(kind Kind) Credential {
	return Credential{kind: kind, tag: TagAbsent}
}

// CleanCert wraps a reused distribution certificate.
func CleanCert(c *api.DistributionCert) Credential {
	return Credential{kind: KindDistributionCert, tag: TagClean, cert: c}
}

// DirtyCert wraps a freshly minted distribution certificate.
func DirtyCert(c *api.DistributionCert) Credential {
	return Credential{kind: KindDistributionCert, tag: TagDirty, cert: c}
}

// CleanPushKey wraps a reused push key.
func CleanPushKey(k *api.PushKey) Credential {
	return Credential{kind: KindPushKey, tag: TagClean, pushKey: k}
}

// DirtyPushKey wraps a freshly minted push key.
func DirtyPushKey(k *api.PushKey) Credential {
	return Credential{kind: KindPushKey, tag: TagDirty, pushKey: k}
}

// Kind returns the credential kind.
func (c Credential) Kind() Kind { return c.kind }

// Tag returns the persistence tag.
func (c Credential) Tag() Tag { return c.tag }

// IsAbsent reports whether the credential was not obtained.
func (c Credential) IsAbsent() bool { return c.tag == TagAbsent }

// IsDirty reports whether the credential requires persistence.
func (c Credential) IsDirty() bool { return c.tag == TagDirty }

// DistributionCert returns the certificate material, or nil for absent or
// push-key credentials.
func (c Credential) DistributionCert() *api.DistributionCert { return c.cert }

// PushKey returns the push key material, or nil for absent or certificate
// credentials.
func (c Credential) PushKey() *api.PushKey { return c.pushKey }

// Cleaned returns the same credential tagged clean. Absent credentials
// stay absent.
func (c Credential) Cleaned() Credential {
	if c.tag == TagAbsent {
		return c
	}
	c.tag = TagClean
	return c
}

// Fields flattens the credential material into store payload fields.
// Absent credentials contribute nothing.
func (c Credential) Fields() api.CredentialFields {
	fields := api.CredentialFields{}
	switch {
	case c.cert != nil:
		fields["cert_p12"] = c.cert.CertP12
		fields["cert_password"] = c.cert.CertPassword
		if c.cert.SerialNumber != "" {
			fields["dist_cert_serial"] = c.cert.SerialNumber
		}
	case c.pushKey != nil:
		fields["push_key_id"] = c.pushKey.KeyID
		fields["push_key_team_id"] = c.pushKey.TeamID
		fields["push_key_p8"] = c.pushKey.KeyP8
	}
	return fields
}
