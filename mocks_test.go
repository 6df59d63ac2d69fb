package sessionguard_test

import (
	"context"
	"sync"

	sessionguard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/mock"
)

// MockValidator implements sessionguard.IdentityValidator
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Me(ctx context.Context, token string) (*sessionguard.IdentityResponse, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*sessionguard.IdentityResponse)
	return res, args.Error(1)
}

// FakeNavigator records navigations and lets tests move the current path.
type FakeNavigator struct {
	mu      sync.Mutex
	path    string
	visited []string
}

func NewFakeNavigator(path string) *FakeNavigator {
	return &FakeNavigator{path: path}
}

func (n *FakeNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *FakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
	n.visited = append(n.visited, path)
}

func (n *FakeNavigator) Visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.visited))
	copy(out, n.visited)
	return out
}

func (n *FakeNavigator) LastVisited() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.visited) == 0 {
		return ""
	}
	return n.visited[len(n.visited)-1]
}

// CaptureSink collects activity events.
type CaptureSink struct {
	mu     sync.Mutex
	events []sessionguard.ActivityEvent
}

func (s *CaptureSink) Record(_ context.Context, event sessionguard.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *CaptureSink) Events() []sessionguard.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sessionguard.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func testConfig() sessionguard.SimpleConfig {
	return sessionguard.SimpleConfig{
		BaseURL: "https://api.example.com",
	}
}

func identityResponse(token string, roles, permissions []string) *sessionguard.IdentityResponse {
	return &sessionguard.IdentityResponse{
		User: sessionguard.IdentityUser{
			ID:          "usr-1",
			Name:        "Ada Lovelace",
			AccessToken: token,
		},
		Roles:       roles,
		Permissions: permissions,
	}
}
