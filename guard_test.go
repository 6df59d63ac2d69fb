package sessionguard_test

import (
	"testing"

	sessionguard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/assert"
)

func authedSnapshot(permissions ...string) sessionguard.Snapshot {
	return sessionguard.Snapshot{
		Authenticated: true,
		InitialCheck:  true,
		Identity: sessionguard.Identity{
			DisplayName: "Ada Lovelace",
			Roles:       []string{"admin"},
			Permissions: permissions,
		},
	}
}

func TestRequireAuth(t *testing.T) {
	guard := sessionguard.NewGuard(testConfig())

	decision := guard.RequireAuth(authedSnapshot())
	assert.True(t, decision.Allowed())
	assert.Empty(t, decision.Target)

	decision = guard.RequireAuth(sessionguard.Snapshot{InitialCheck: true})
	assert.False(t, decision.Allowed())
	assert.Equal(t, sessionguard.GuardRedirectLogin, decision.Action)
	assert.Equal(t, "/login", decision.Target)
}

func TestRequirePermissionsMissingPermissionIsForbiddenNotLogin(t *testing.T) {
	guard := sessionguard.NewGuard(testConfig())

	decision := guard.RequirePermissions(authedSnapshot("bills.read"), sessionguard.PermissionSpec{
		Permissions: []string{"bills.delete"},
		RequireAll:  true,
	})

	// the user is known, they just lack rights: forbidden, never login
	assert.Equal(t, sessionguard.GuardRedirectForbidden, decision.Action)
	assert.Equal(t, "/403", decision.Target)
}

func TestRequirePermissionsCombinators(t *testing.T) {
	guard := sessionguard.NewGuard(testConfig())
	snapshot := authedSnapshot("bills.read")

	any := guard.RequirePermissions(snapshot, sessionguard.PermissionSpec{
		Permissions: []string{"bills.read", "bills.delete"},
	})
	assert.True(t, any.Allowed())

	all := guard.RequirePermissions(snapshot, sessionguard.PermissionSpec{
		Permissions: []string{"bills.read", "bills.delete"},
		RequireAll:  true,
	})
	assert.Equal(t, sessionguard.GuardRedirectForbidden, all.Action)
}

func TestRequirePermissionsEmptySpecDegradesToAuth(t *testing.T) {
	guard := sessionguard.NewGuard(testConfig())

	assert.True(t, guard.RequirePermissions(authedSnapshot(), sessionguard.PermissionSpec{}).Allowed())

	decision := guard.RequirePermissions(sessionguard.Snapshot{InitialCheck: true}, sessionguard.PermissionSpec{})
	assert.Equal(t, sessionguard.GuardRedirectLogin, decision.Action)
}

func TestRequirePermissionsUnauthenticatedGoesToLogin(t *testing.T) {
	guard := sessionguard.NewGuard(testConfig())

	decision := guard.RequirePermissions(sessionguard.Snapshot{InitialCheck: true}, sessionguard.PermissionSpec{
		Permissions: []string{"bills.read"},
	})
	assert.Equal(t, sessionguard.GuardRedirectLogin, decision.Action)
	assert.Equal(t, "/login", decision.Target)
}

func TestEvaluateIsOptimisticWhileInitializing(t *testing.T) {
	guard := sessionguard.NewGuard(testConfig())

	// initial validation still in flight: no redirect flash
	initializing := sessionguard.Snapshot{Loading: true, InitialCheck: false}
	decision := guard.Evaluate(initializing, sessionguard.PermissionSpec{
		Permissions: []string{"bills.delete"},
		RequireAll:  true,
	})
	assert.True(t, decision.Allowed())

	// once the check settles the same spec redirects
	settled := sessionguard.Snapshot{InitialCheck: true}
	decision = guard.Evaluate(settled, sessionguard.PermissionSpec{
		Permissions: []string{"bills.delete"},
	})
	assert.Equal(t, sessionguard.GuardRedirectLogin, decision.Action)
}
