package interfaces

import (
	"errors"
	"fmt"
)

// ErrCredentialNotFound is returned by signing authority lookups when no
// credential of the requested kind is on file. It distinguishes "nothing
// to reuse" from a transport failure.
var ErrCredentialNotFound = errors.New("no credential on file")

// BusinessDenialError is returned when the build service refuses a new
// build for the identity/team pair. It is a terminal business decision,
// not a fault: the orchestration aborts without retrying and surfaces the
// service's reason verbatim.
type BusinessDenialError struct {
	Reason string
}

// Error implements the error interface.
func (e *BusinessDenialError) Error() string {
	if e.Reason == "" {
		return "build request denied"
	}
	return fmt.Sprintf("build request denied: %s", e.Reason)
}

// IsBusinessDenial reports whether err is (or wraps) a BusinessDenialError.
func IsBusinessDenial(err error) bool {
	var de *BusinessDenialError
	return errors.As(err, &de)
}
