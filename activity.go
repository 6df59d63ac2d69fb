package sessionguard

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess     ActivityEventType = "session.login.success"
	ActivityEventLogout           ActivityEventType = "session.logout"
	ActivityEventValidateSuccess  ActivityEventType = "session.validate.success"
	ActivityEventValidateFailure  ActivityEventType = "session.validate.failure"
	ActivityEventRefreshFailure   ActivityEventType = "session.refresh.failure"
	ActivityEventCredentialReject ActivityEventType = "session.credential.rejected"
)

// ActivityEvent captures audit-friendly information about a session
// transition. TokenID is a deterministic fingerprint, never the raw bearer.
type ActivityEvent struct {
	EventType  ActivityEventType
	TokenID    string
	Path       string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged, never propagated, so an audit
// hiccup cannot block a session transition.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
