package sessionguard

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// Snapshot is the read-only projection guards and views consume. Copy
// semantics: a snapshot never changes after it is taken.
type Snapshot struct {
	Authenticated    bool
	Loading          bool
	InitialCheck     bool
	Identity         Identity
	TokenFingerprint string
	TokenExpiresAt   *time.Time
}

// Manager is the session state machine: the sole owner of the in-memory
// session. It is created once at application bootstrap and mutated only by
// Initialize, Login, Logout, the periodic refresh task, and the fault
// interceptor's teardown (which is Logout by another road).
type Manager struct {
	mu sync.Mutex

	cfg      Config
	client   IdentityValidator
	tokens   TokenStore
	intents  IntentStore
	nav      Navigator
	routes   *PublicRouteMatcher
	sink     ActivitySink
	logger   Logger
	provider LoggerProvider
	now      func() time.Time

	token         string
	tokenFP       string
	tokenExp      *time.Time
	identity      Identity
	authenticated bool
	loading       bool
	initialCheck  bool
	initialized   bool

	refreshStop chan struct{}
	unsubscribe func()
}

// ManagerOption customizes Manager construction.
type ManagerOption func(*Manager)

// WithTokenStore overrides the durable token store.
func WithTokenStore(store TokenStore) ManagerOption {
	return func(m *Manager) {
		if store != nil {
			m.tokens = store
		}
	}
}

// WithIntentStore overrides the pending-redirect-intent store.
func WithIntentStore(store IntentStore) ManagerOption {
	return func(m *Manager) {
		if store != nil {
			m.intents = store
		}
	}
}

// WithNavigator wires the client shell's routing surface.
func WithNavigator(nav Navigator) ManagerOption {
	return func(m *Manager) {
		if nav != nil {
			m.nav = nav
		}
	}
}

// WithRouteMatcher overrides public-route classification.
func WithRouteMatcher(routes *PublicRouteMatcher) ManagerOption {
	return func(m *Manager) {
		if routes != nil {
			m.routes = routes
		}
	}
}

// WithBroadcaster subscribes the Manager to a notification channel for the
// lifetime of the session (until Close).
func WithBroadcaster(bus *Broadcaster) ManagerOption {
	return func(m *Manager) {
		if bus == nil {
			return
		}
		m.unsubscribe = bus.Subscribe(func(event SessionEvent) {
			switch event.Kind {
			case SessionEventLogin:
				m.Login(context.Background(), event.Token)
			case SessionEventLogout:
				m.Logout(context.Background())
			}
		})
	}
}

// WithActivitySink sets the ActivitySink used to publish session events.
func WithActivitySink(sink ActivitySink) ManagerOption {
	return func(m *Manager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// WithManagerLogger overrides the logger.
func WithManagerLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		m.provider, m.logger = ResolveLogger("sessionguard.manager", m.provider, logger)
	}
}

// WithManagerLoggerProvider overrides the logger provider.
func WithManagerLoggerProvider(provider LoggerProvider) ManagerOption {
	return func(m *Manager) {
		m.provider, m.logger = ResolveLogger("sessionguard.manager", provider, nil)
	}
}

// WithManagerClock injects a custom clock (useful for tests).
func WithManagerClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// NewManager returns the session state machine over the given validator and
// config. Defaults: in-memory stores, a no-op navigator, noop sink.
func NewManager(client IdentityValidator, cfg Config, opts ...ManagerOption) *Manager {
	provider, logger := ResolveLogger("sessionguard.manager", nil, nil)

	m := &Manager{
		cfg:      cfg,
		client:   client,
		tokens:   NewMemoryTokenStore(),
		intents:  NewMemoryIntentStore(),
		nav:      noopNavigator{},
		routes:   NewPublicRouteMatcher(cfg.GetPublicRoutes()...),
		sink:     noopActivitySink{},
		logger:   logger,
		provider: provider,
		now:      time.Now,
		loading:  true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Initialize runs the mount-time validation exactly once: it loads the
// stored token, validates it against the API, and settles the initial
// redirect. Re-entry (a remount, an eager caller) is a no-op. Whatever
// happens, loading clears and the initial check settles before it returns.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = true
	m.loading = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.initialCheck = true
		m.mu.Unlock()
	}()

	token, err := m.tokens.Get(ctx)
	if err != nil {
		m.logger.Error("Could not read token store", "error", err)
		token = ""
	}

	if token == "" {
		m.mu.Lock()
		m.authenticated = false
		m.identity = Identity{}
		m.mu.Unlock()

		if path := m.nav.CurrentPath(); m.routes.IsPrivate(path) {
			m.intents.Set(path)
			m.nav.Navigate(m.cfg.GetLoginRoute())
		}
		return nil
	}

	res, err := m.client.Me(ctx, token)
	if err != nil {
		// cannot tell a bad token from an unreachable API here; the safe
		// default is to not grant access
		m.logger.Error("Mount validation failed, evicting session",
			"error", err,
			"details", print.MaybePrettyJSON(errorMetadata(err)),
		)
		m.recordAs(ctx, ActivityEventValidateFailure, TokenFingerprint(token), map[string]any{"error": err.Error()})
		m.Logout(ctx)
		return err
	}

	m.applyValidated(ctx, token, res)
	m.record(ctx, ActivityEventValidateSuccess, nil)

	if path := m.nav.CurrentPath(); m.routes.IsPublic(path) {
		m.settleLoginNavigation()
	}

	return nil
}

// Login persists the token and makes the session authenticated. It does not
// re-validate identity: the caller is expected to apply the identity it got
// from the login response via SetIdentity. Consumes the pending redirect
// intent, falling back to the landing route.
func (m *Manager) Login(ctx context.Context, token string) {
	if token == "" {
		return
	}

	if err := m.tokens.Set(ctx, token); err != nil {
		m.logger.Error("Could not persist token", "error", err)
	}

	m.mu.Lock()
	m.setTokenLocked(token)
	m.authenticated = true
	m.mu.Unlock()

	m.startRefresh()
	m.record(ctx, ActivityEventLoginSuccess, nil)
	m.settleLoginNavigation()
}

// SetIdentity applies the identity a login response carried. Ignored while
// no token is held: the anonymous session keeps its default identity.
func (m *Manager) SetIdentity(identity Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return
	}
	m.identity = identity
}

// Logout evicts the session: clears the stored token, resets identity, and
// redirects off private routes, remembering where the user was. Idempotent;
// when already logged out only the redirect check runs.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	active := m.authenticated || m.token != ""
	evictedFP := m.tokenFP
	m.setTokenLocked("")
	m.identity = Identity{}
	m.authenticated = false
	m.stopRefreshLocked()
	m.mu.Unlock()

	// the store clears unconditionally: a mount-time validation failure
	// evicts a stored token the in-memory session never committed
	if err := m.tokens.Clear(ctx); err != nil {
		m.logger.Error("Could not clear token store", "error", err)
	}

	if active {
		// the event carries the fingerprint of the token it evicted
		m.recordAs(ctx, ActivityEventLogout, evictedFP, nil)
	}

	if path := m.nav.CurrentPath(); m.routes.IsPrivate(path) {
		m.intents.Set(path)
		m.nav.Navigate(m.cfg.GetLoginRoute())
	}
}

// Refresh re-validates the identity in the background. A failure is logged
// and reported to the sink but never evicts the session: a transient outage
// must not log an active user out mid-use. The 401 interceptor is the path
// that evicts.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	authed := m.authenticated
	m.mu.Unlock()

	if !authed || token == "" {
		return nil
	}

	res, err := m.client.Me(ctx, token)
	if err != nil {
		m.logger.Warn("Session refresh failed, keeping session", "error", err)
		m.record(ctx, ActivityEventRefreshFailure, map[string]any{"error": err.Error()})
		return err
	}

	m.applyValidated(ctx, token, res)
	return nil
}

// HandleNavigation is the route-protection reaction: call it on every path
// change. Inert until the initial check settles so it cannot race the
// mount-time redirect. Never performs a network call.
func (m *Manager) HandleNavigation(path string) {
	m.mu.Lock()
	if !m.initialCheck {
		m.mu.Unlock()
		return
	}
	token := m.token
	authed := m.authenticated
	m.mu.Unlock()

	if token == "" && m.routes.IsPrivate(path) {
		m.intents.Set(path)
		m.nav.Navigate(m.cfg.GetLoginRoute())
		return
	}

	if authed && m.routes.IsPublic(path) {
		m.settleLoginNavigation()
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Authenticated:    m.authenticated,
		Loading:          m.loading,
		InitialCheck:     m.initialCheck,
		Identity:         m.identity,
		TokenFingerprint: m.tokenFP,
		TokenExpiresAt:   m.tokenExp,
	}
}

// HasPermission checks the current identity for a permission.
func (m *Manager) HasPermission(permission string) bool {
	return m.Snapshot().Identity.HasPermission(permission)
}

// HasAnyPermission checks the current identity for at least one of the
// given permissions.
func (m *Manager) HasAnyPermission(permissions []string) bool {
	return m.Snapshot().Identity.HasAnyPermission(permissions)
}

// HasAllPermissions checks the current identity for every given permission.
func (m *Manager) HasAllPermissions(permissions []string) bool {
	return m.Snapshot().Identity.HasAllPermissions(permissions)
}

// HasRole checks the current identity for a role.
func (m *Manager) HasRole(role string) bool {
	return m.Snapshot().Identity.HasRole(role)
}

// TeardownFunc adapts Logout to the FaultInterceptor's callback shape.
func (m *Manager) TeardownFunc() func() {
	return func() {
		m.record(context.Background(), ActivityEventCredentialReject, nil)
		m.Logout(context.Background())
	}
}

// Close stops the refresh loop and detaches from the broadcaster. The
// session object itself lives as long as the application instance.
func (m *Manager) Close() {
	m.mu.Lock()
	m.stopRefreshLocked()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// applyValidated commits a successful identity round trip: identity, flags,
// renewed token (if the response carried one), refresh loop. The commit is
// conditional: once the initial check has settled, a result validated against
// a token the session no longer holds is stale and gets dropped, so a logout
// that landed while the round trip was in flight stays a logout. During the
// mount-time check the session holds no token yet, hence the initialCheck
// gate.
func (m *Manager) applyValidated(ctx context.Context, token string, res *IdentityResponse) {
	renewed := res.User.AccessToken
	if renewed == "" {
		renewed = token
	}

	m.mu.Lock()
	if m.initialCheck && m.token != token {
		m.mu.Unlock()
		m.logger.Info("Dropping stale validation result", "fingerprint", TokenFingerprint(token))
		return
	}
	m.setTokenLocked(renewed)
	m.identity = res.Identity()
	m.authenticated = true
	m.mu.Unlock()

	if renewed != token {
		if err := m.tokens.Set(ctx, renewed); err != nil {
			m.logger.Error("Could not persist renewed token", "error", err)
		}
	}

	m.startRefresh()
}

// settleLoginNavigation consumes the pending redirect intent; a missing or
// public intent falls through to the landing route.
func (m *Manager) settleLoginNavigation() {
	intent := m.intents.Consume()
	if intent != "" && m.routes.IsPrivate(intent) {
		m.nav.Navigate(intent)
		return
	}
	m.nav.Navigate(m.cfg.GetLandingRoute())
}

func (m *Manager) setTokenLocked(token string) {
	m.token = token
	if token == "" {
		m.tokenFP = ""
		m.tokenExp = nil
		return
	}
	m.tokenFP = TokenFingerprint(token)
	m.tokenExp = TokenExpiry(token)
}

func (m *Manager) startRefresh() {
	interval := m.cfg.GetRefreshInterval()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refreshStop != nil {
		return
	}
	stop := make(chan struct{})
	m.refreshStop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = m.Refresh(context.Background())
			}
		}
	}()
}

func (m *Manager) stopRefreshLocked() {
	if m.refreshStop == nil {
		return
	}
	close(m.refreshStop)
	m.refreshStop = nil
}

func (m *Manager) record(ctx context.Context, eventType ActivityEventType, metadata map[string]any) {
	m.mu.Lock()
	tokenID := m.tokenFP
	m.mu.Unlock()

	m.recordAs(ctx, eventType, tokenID, metadata)
}

func (m *Manager) recordAs(ctx context.Context, eventType ActivityEventType, tokenID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		TokenID:    tokenID,
		Path:       m.nav.CurrentPath(),
		Metadata:   metadata,
		OccurredAt: m.now(),
	}

	if err := m.sink.Record(ctx, event); err != nil {
		m.logger.Warn("Activity sink failed", "event", event.EventType, "error", err)
	}
}

func errorMetadata(err error) map[string]any {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Metadata
	}
	return nil
}

type noopNavigator struct{}

func (noopNavigator) CurrentPath() string { return "/" }
func (noopNavigator) Navigate(string)     {}
