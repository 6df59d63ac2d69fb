// Package sessionguard owns the client half of an authenticated session: it
// keeps the bearer token, validates it against the backing API, and answers
// render-vs-redirect for every navigation a long-lived client shell performs.
//
// Session lifecycle:
//   - Manager is created once at application bootstrap and mutated only by
//     Initialize, Login, Logout, the periodic refresh task, and the fault
//     interceptor's teardown callback. Initialize runs the mount-time token
//     validation exactly once; re-entry is a no-op.
//   - A failed periodic refresh is logged but never evicts the session; a 401
//     observed by the FaultInterceptor always does. The asymmetry is
//     deliberate: a transient outage should not log an active user out
//     mid-use, a rejected credential must.
//
// Guards:
//   - Guard answers Allow/RedirectLogin/RedirectForbidden from a Snapshot and
//     an optional permission spec. While the first validation is still in
//     flight guards answer optimistically; Manager.HandleNavigation is the
//     backstop that corrects a wrong optimistic render once the check lands.
//
// Broadcast:
//   - Broadcaster lets code with no reference to the Manager (the fault
//     interceptor, a deeply nested view) request login/logout. The Manager
//     subscribes for its lifetime and applies the transitions; both paths are
//     idempotent so duplicate delivery is harmless.
package sessionguard
