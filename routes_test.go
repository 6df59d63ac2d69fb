package sessionguard_test

import (
	"testing"

	sessionguard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/assert"
)

func TestPublicRoutePrefixMatch(t *testing.T) {
	matcher := sessionguard.NewPublicRouteMatcher()

	// prefix matching: the share link and the bare prefix are both public
	assert.True(t, matcher.IsPublic("/quotation/abc123"))
	assert.True(t, matcher.IsPublic("/quotation"))
	assert.True(t, matcher.IsPublic("/login"))
	assert.True(t, matcher.IsPublic("/forgot-password"))

	assert.False(t, matcher.IsPublic("/dashboard"))
	assert.False(t, matcher.IsPublic("/bills"))
	assert.True(t, matcher.IsPrivate("/bills"))
}

func TestPublicRouteCustomAllowList(t *testing.T) {
	matcher := sessionguard.NewPublicRouteMatcher("/signin", "/share")

	assert.True(t, matcher.IsPublic("/share/xyz"))
	assert.False(t, matcher.IsPublic("/login"))
}

func TestPublicRouteClassificationIgnoresSession(t *testing.T) {
	// membership is static; no session state involved, so two matchers over
	// the same list always agree
	a := sessionguard.NewPublicRouteMatcher()
	b := sessionguard.NewPublicRouteMatcher()

	for _, path := range []string{"/login", "/bills", "/quotation/1", "/"} {
		assert.Equal(t, a.IsPublic(path), b.IsPublic(path), path)
	}
}
