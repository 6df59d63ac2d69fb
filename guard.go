package sessionguard

// GuardAction is the outcome of a guard decision.
type GuardAction int

const (
	// GuardAllow renders the protected content.
	GuardAllow GuardAction = iota
	// GuardRedirectLogin sends the visitor to the login route.
	GuardRedirectLogin
	// GuardRedirectForbidden sends an authenticated visitor without the
	// required rights to the forbidden route. Distinct from login: the user
	// is known, they just lack permission.
	GuardRedirectForbidden
)

// GuardDecision pairs the action with its redirect target (empty on allow).
type GuardDecision struct {
	Action GuardAction
	Target string
}

// Allowed reports whether the guarded content should render.
func (d GuardDecision) Allowed() bool {
	return d.Action == GuardAllow
}

// PermissionSpec names what a guarded screen requires. RequireAll selects
// AND over the listed permissions; the default OR passes on any one.
type PermissionSpec struct {
	Permissions []string
	RequireAll  bool
}

func (s PermissionSpec) evaluate(identity Identity) bool {
	if s.RequireAll {
		return identity.HasAllPermissions(s.Permissions)
	}
	return identity.HasAnyPermission(s.Permissions)
}

// Guard decides render-vs-redirect for protected screens from a session
// snapshot. Decisions are pure: same snapshot, same answer.
type Guard struct {
	cfg Config
}

// NewGuard builds a guard whose redirect targets come from cfg.
func NewGuard(cfg Config) *Guard {
	return &Guard{cfg: cfg}
}

// RequireAuth is the authentication-only guard.
func (g *Guard) RequireAuth(s Snapshot) GuardDecision {
	if !s.Authenticated {
		return GuardDecision{Action: GuardRedirectLogin, Target: g.cfg.GetLoginRoute()}
	}
	return GuardDecision{Action: GuardAllow}
}

// RequirePermissions gates on authentication first, then on the permission
// spec. An empty spec degrades to RequireAuth.
func (g *Guard) RequirePermissions(s Snapshot, spec PermissionSpec) GuardDecision {
	if !s.Authenticated {
		return GuardDecision{Action: GuardRedirectLogin, Target: g.cfg.GetLoginRoute()}
	}
	if len(spec.Permissions) > 0 && !spec.evaluate(s.Identity) {
		return GuardDecision{Action: GuardRedirectForbidden, Target: g.cfg.GetForbiddenRoute()}
	}
	return GuardDecision{Action: GuardAllow}
}

// Evaluate is the variant safe to consult while the session is still
// initializing: redirecting before the mount-time validation lands would
// flash login/forbidden at users who are in fact authenticated, so it
// allows during that window. The Manager's navigation reaction is the
// backstop that corrects a wrong optimistic render once the check settles.
func (g *Guard) Evaluate(s Snapshot, spec PermissionSpec) GuardDecision {
	if !s.InitialCheck {
		return GuardDecision{Action: GuardAllow}
	}
	return g.RequirePermissions(s, spec)
}
