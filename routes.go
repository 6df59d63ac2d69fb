package sessionguard

import "strings"

// DefaultPublicRoutes is the static allow-list of paths reachable without a
// session: login, password recovery, and the public quotation share links.
var DefaultPublicRoutes = []string{
	"/login",
	"/forgot-password",
	"/quotation",
}

// PublicRouteMatcher classifies paths by prefix against a static allow-list.
// Membership never depends on session state.
//
// Prefix matching can over-match: a private route that shares a prefix with a
// public one is classified public. Callers that add routes to the allow-list
// own that risk.
type PublicRouteMatcher struct {
	prefixes []string
}

// NewPublicRouteMatcher builds a matcher over the given prefixes; with none
// given it uses DefaultPublicRoutes.
func NewPublicRouteMatcher(prefixes ...string) *PublicRouteMatcher {
	if len(prefixes) == 0 {
		prefixes = DefaultPublicRoutes
	}
	return &PublicRouteMatcher{prefixes: prefixes}
}

// IsPublic reports whether path is reachable without authentication.
func (m *PublicRouteMatcher) IsPublic(path string) bool {
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsPrivate is the complement of IsPublic.
func (m *PublicRouteMatcher) IsPrivate(path string) bool {
	return !m.IsPublic(path)
}
