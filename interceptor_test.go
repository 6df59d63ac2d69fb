package sessionguard_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	sessionguard "github.com/goliatone/go-sessionguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptorTeardownOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var teardowns atomic.Int32
	client := &http.Client{}
	sessionguard.NewFaultInterceptor(func() {
		teardowns.Add(1)
	}, nil).Install(client)

	res, err := client.Get(srv.URL + "/bills")
	require.NoError(t, err)
	defer res.Body.Close()

	// observed, not swallowed: the caller still sees the original response
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, int32(1), teardowns.Load())
}

func TestInterceptorInstallOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var teardowns atomic.Int32
	teardown := func() { teardowns.Add(1) }

	client := &http.Client{}
	sessionguard.NewFaultInterceptor(teardown, nil).Install(client)
	// a remounting bootstrap tries again; must not stack a second observer
	sessionguard.NewFaultInterceptor(teardown, nil).Install(client)

	res, err := client.Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, int32(1), teardowns.Load())
}

func TestInterceptorInstallOnceThroughDecorators(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var teardowns atomic.Int32
	teardown := func() { teardowns.Add(1) }

	client := &http.Client{}
	sessionguard.NewFaultInterceptor(teardown, nil).Install(client)

	// another decorator wraps the installed interceptor; a second install
	// must still find it through the chain and back off
	client.Transport = &unwrappingTransport{next: client.Transport}
	sessionguard.NewFaultInterceptor(teardown, nil).Install(client)

	res, err := client.Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, int32(1), teardowns.Load())
}

func TestInterceptorIgnoresOtherStatuses(t *testing.T) {
	statuses := []int{http.StatusOK, http.StatusForbidden, http.StatusInternalServerError}

	for _, status := range statuses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		var teardowns atomic.Int32
		client := &http.Client{}
		sessionguard.NewFaultInterceptor(func() {
			teardowns.Add(1)
		}, nil).Install(client)

		res, err := client.Get(srv.URL)
		require.NoError(t, err)
		res.Body.Close()
		srv.Close()

		assert.Equal(t, status, res.StatusCode)
		assert.Equal(t, int32(0), teardowns.Load(), "status %d", status)
	}
}

func TestInterceptorForwardsTransportErrors(t *testing.T) {
	var teardowns atomic.Int32
	client := &http.Client{}
	sessionguard.NewFaultInterceptor(func() {
		teardowns.Add(1)
	}, nil).Install(client)

	_, err := client.Get("http://127.0.0.1:1/unreachable")
	require.Error(t, err)
	assert.Equal(t, int32(0), teardowns.Load())
}

func TestInterceptorWrapsExistingTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "ok")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	base := &countingTransport{next: http.DefaultTransport}
	client := &http.Client{Transport: base}
	sessionguard.NewFaultInterceptor(func() {}, nil).Install(client)

	res, err := client.Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, int32(1), base.calls.Load())
	assert.Equal(t, "ok", res.Header.Get("X-Test"))
}

type unwrappingTransport struct {
	next http.RoundTripper
}

func (u *unwrappingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return u.next.RoundTrip(req)
}

func (u *unwrappingTransport) Unwrap() http.RoundTripper {
	return u.next
}

type countingTransport struct {
	next  http.RoundTripper
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(req)
}
