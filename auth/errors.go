package auth

// Rejection kinds. Every kind maps to the same caller-facing failure; the kind
// only shows up in logs.
const (
	KindInvalidCredentials = "invalid_credentials"
	KindMalformed          = "malformed"
	KindInvalidSignature   = "invalid_signature"
	KindExpired            = "expired"
	KindRevoked            = "revoked"
	KindForbidden          = "forbidden"
)

type Error struct {
	Kind  string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return "unauthorized (" + e.Kind + "): " + e.Cause.Error()
	}
	return "unauthorized (" + e.Kind + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

var ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
