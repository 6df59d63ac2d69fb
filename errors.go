package sessionguard

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeCredentialRejected = "CREDENTIAL_REJECTED"
	textCodeIdentityMalformed  = "IDENTITY_PAYLOAD_MALFORMED"
	textCodeLoginRejected      = "LOGIN_REJECTED"
)

// ErrCredentialRejected is returned when the API answers 401 to a request
// carrying the session's bearer token.
var ErrCredentialRejected = goerrors.New("bearer credential rejected", goerrors.CategoryAuth).
	WithTextCode(textCodeCredentialRejected).
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityMalformed is returned when the identity-validation payload does
// not carry the expected access marker. Treated as a credential rejection by
// callers: a response we cannot trust must not grant access.
var ErrIdentityMalformed = goerrors.New("identity payload missing access marker", goerrors.CategoryAuth).
	WithTextCode(textCodeIdentityMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrLoginRejected is returned when the login endpoint answers without an
// access token in the body.
var ErrLoginRejected = goerrors.New("login response missing access token", goerrors.CategoryAuth).
	WithTextCode(textCodeLoginRejected).
	WithCode(goerrors.CodeUnauthorized)

// IsCredentialRejectedError will check for rejected bearer credentials
func IsCredentialRejectedError(err error) bool {
	return hasTextCode(err, textCodeCredentialRejected)
}

// IsIdentityMalformedError will check for malformed identity payloads
func IsIdentityMalformedError(err error) bool {
	return hasTextCode(err, textCodeIdentityMalformed)
}

func hasTextCode(err error, code string) bool {
	for err != nil {
		if richErr, ok := err.(*goerrors.Error); ok && richErr.TextCode == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
