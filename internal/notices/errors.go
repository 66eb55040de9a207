package notices

import "errors"

var (
	// ErrMalformedRequest reports a request missing the field it operates on.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrAuthRejected reports a failed anti-forgery check.
	ErrAuthRejected = errors.New("anti-forgery check failed")
)
