package sessionguard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/hashid/pkg/hashid"
)

// TokenFingerprint derives a stable, loggable identifier from a bearer
// token. Logs and activity events carry the fingerprint so the raw
// credential never leaves the Manager.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	id, err := hashid.NewUUID(token)
	if err != nil {
		return ""
	}
	return id.String()
}

// TokenExpiry reads the exp claim from a JWT bearer without verifying the
// signature. Verification is the server's job; the client only uses the
// expiry as a display/scheduling hint. Returns nil for opaque or claimless
// tokens.
func TokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return &exp.Time
}
