package sessionguard

import "sync"

// SessionEventKind enumerates the two broadcast kinds.
type SessionEventKind string

const (
	// SessionEventLogin announces an observed login; payload is the token.
	SessionEventLogin SessionEventKind = "session.login"
	// SessionEventLogout requests a logout; no payload.
	SessionEventLogout SessionEventKind = "session.logout"
)

// SessionEvent is the broadcast payload.
type SessionEvent struct {
	Kind  SessionEventKind
	Token string
}

// Broadcaster is the cross-tree notification channel: code with no reference
// to the Manager publishes login/logout here, the Manager subscribes for its
// lifetime. One value is constructed at bootstrap and injected into both the
// HTTP layer and the session owner; there is no process-global instance.
//
// Dispatch is synchronous and in subscription order: by the time Publish
// returns every subscriber has seen the event.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id      int
	handler func(SessionEvent)
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Unsubscribing twice is a no-op.
func (b *Broadcaster) Subscribe(handler func(SessionEvent)) func() {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// PublishLogin broadcasts an observed login with its token.
func (b *Broadcaster) PublishLogin(token string) {
	b.publish(SessionEvent{Kind: SessionEventLogin, Token: token})
}

// PublishLogout broadcasts a logout request.
func (b *Broadcaster) PublishLogout() {
	b.publish(SessionEvent{Kind: SessionEventLogout})
}

func (b *Broadcaster) publish(event SessionEvent) {
	b.mu.Lock()
	handlers := make([]func(SessionEvent), 0, len(b.subs))
	for _, sub := range b.subs {
		handlers = append(handlers, sub.handler)
	}
	b.mu.Unlock()

	// handlers run outside the lock so a subscriber may publish or
	// unsubscribe without deadlocking
	for _, h := range handlers {
		h(event)
	}
}
