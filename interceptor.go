package sessionguard

import "net/http"

// FaultInterceptor observes every outbound response and, on a 401, invokes
// its teardown callback so whoever owns the session can evict it. It is the
// only piece that catches credential rejection on requests issued far from
// the Manager (a business-entity screen, a background export).
//
// Construct one at application bootstrap and install it on the shared HTTP
// client. The response and error always pass through unchanged so the
// request site's own error handling still runs.
type FaultInterceptor struct {
	next     http.RoundTripper
	teardown func()
	logger   Logger
}

// NewFaultInterceptor wraps next with 401 detection. A nil next falls back
// to http.DefaultTransport.
func NewFaultInterceptor(teardown func(), next http.RoundTripper) *FaultInterceptor {
	if next == nil {
		next = http.DefaultTransport
	}
	return &FaultInterceptor{
		next:     next,
		teardown: teardown,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used when a rejection is observed.
func (f *FaultInterceptor) WithLogger(logger Logger) *FaultInterceptor {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// RoundTrip implements http.RoundTripper. It observes, never swallows: the
// original response and error are returned untouched.
func (f *FaultInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := f.next.RoundTrip(req)
	if err != nil {
		return res, err
	}

	if res.StatusCode == http.StatusUnauthorized {
		f.logger.Info("Credential rejected, tearing down session", "path", req.URL.Path)
		if f.teardown != nil {
			f.teardown()
		}
	}

	return res, err
}

// Unwrap exposes the wrapped transport so other decorators (and Install's
// duplicate check) can walk the chain.
func (f *FaultInterceptor) Unwrap() http.RoundTripper {
	return f.next
}

// Install wires the interceptor into client's transport chain. Installation
// happens at most once per client: if the transport is already this
// interceptor (or wraps one), repeated calls are no-ops so remounting
// bootstrap code cannot stack duplicate teardowns.
func (f *FaultInterceptor) Install(client *http.Client) {
	if client == nil {
		return
	}

	if isInstalled(client.Transport) {
		return
	}

	if client.Transport != nil {
		f.next = client.Transport
	}
	client.Transport = f
}

// isInstalled walks the transport chain through every decorator that exposes
// an Unwrap method, so an interceptor buried under another wrapper is still
// found.
func isInstalled(rt http.RoundTripper) bool {
	for rt != nil {
		if _, ok := rt.(*FaultInterceptor); ok {
			return true
		}
		wrapper, ok := rt.(interface{ Unwrap() http.RoundTripper })
		if !ok {
			return false
		}
		rt = wrapper.Unwrap()
	}
	return false
}
