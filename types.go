package sessionguard

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenStore is the durable home of the bearer credential. The Manager owns
// the token; the store only mirrors it so it survives client restarts.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// IntentStore holds the single pending redirect intent: the path an
// unauthenticated user was trying to reach before being sent through login.
type IntentStore interface {
	Set(path string)
	// Peek returns the pending path without consuming it.
	Peek() string
	// Consume returns the pending path and clears it. Read-once.
	Consume() string
	Clear()
}

// Navigator abstracts the client shell's routing surface: where the user is,
// and how to send them somewhere else.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// IdentityValidator is the slice of the API client the Manager needs: the
// identity-validation round trip.
type IdentityValidator interface {
	Me(ctx context.Context, token string) (*IdentityResponse, error)
}

// Config holds guard options
type Config interface {
	GetBaseURL() string
	GetMediaBaseURL() string
	GetLoginRoute() string
	GetLandingRoute() string
	GetForbiddenRoute() string
	GetPublicRoutes() []string
	GetRefreshInterval() time.Duration
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
