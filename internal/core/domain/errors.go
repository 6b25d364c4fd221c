package domain

import "errors"

// Platform failure classes. The remote client wraps these into result causes;
// they never cross its boundary as returned errors.
var (
	ErrTransport           = errors.New("platform transport failure")
	ErrUnexpectedStatus    = errors.New("platform returned non-success status")
	ErrMalformedPayload    = errors.New("platform payload malformed")
	ErrIdentityUnavailable = errors.New("own identity unavailable")
)

// ErrMissingCredential is fatal at startup.
var ErrMissingCredential = errors.New("platform bearer token not configured")

var ErrUnknownAction = errors.New("unknown action")
var ErrEmptyHandle = errors.New("account handle is empty")
