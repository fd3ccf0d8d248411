// Package session owns the client's authentication state.
//
// The Manager is the single source of truth for "is there a usable
// session" and the only component permitted to open or close the realtime
// channel. It orchestrates resume/login/registration/logout against the
// HTTP API and keeps the persisted token, the in-memory user, and the
// channel lifecycle in lockstep.
//
// Token storage and HTTP credential attachment live elsewhere (secrets,
// api); this package never touches raw HTTP.
package session
