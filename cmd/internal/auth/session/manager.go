package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"curio/cmd/internal/api"
	"curio/cmd/internal/realtime"
	"curio/cmd/internal/secrets"
)

// EventChannel is the slice of the realtime channel the Manager drives.
// Open with no stored token yields (nil, nil); consumers tolerate a nil
// connection.
type EventChannel interface {
	Open(ctx context.Context) (*realtime.Conn, error)
	Close()
}

// Manager implements the client's session operations.
//
// State is {user, loading, lastErr}. The user field is the sole signal
// consuming code uses to decide between the authenticated and
// unauthenticated surfaces. The loading flag is an advisory guard: the
// UI checks it before issuing a second authentication operation; it is
// not an enforced lock.
type Manager struct {
	store   secrets.Store
	api     *api.Client
	channel EventChannel
	log     *slog.Logger

	mu      sync.Mutex
	user    *api.User
	loading bool
	lastErr string
}

// NewManager constructs a Manager over the token store, the HTTP client,
// and the realtime channel.
func NewManager(store secrets.Store, client *api.Client, channel EventChannel, log *slog.Logger) *Manager {
	return &Manager{
		store:   store,
		api:     client,
		channel: channel,
		log:     log,
	}
}

// User returns the current profile, or nil when unauthenticated.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Loading reports whether an authentication operation is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LastError returns the recorded human-readable failure message, or "".
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Resume attempts to restore a session from a previously persisted token.
// It never fails the caller: every outcome resolves to either a profile
// or nil for this run.
//
// An authorization failure purges the token; any other profile-fetch
// failure leaves the stale token in place on the assumption of a
// transient network issue, so the next start can retry silently.
func (m *Manager) Resume(ctx context.Context) *api.User {
	m.begin(false)
	defer m.finish()

	if _, err := m.store.Load(); err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			m.log.Warn("session.resume.token_load_failed", "err", err)
		}
		return nil
	}

	profile, err := m.api.Auth.Profile(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			// The interceptor has already purged; this keeps the
			// contract local and is a no-op when it has.
			if derr := m.store.Delete(); derr != nil {
				m.log.Warn("session.resume.token_purge_failed", "err", derr)
			}
			m.log.Info("session.resume.rejected")
		} else {
			m.log.Warn("session.resume.failed", "err", err)
		}
		return nil
	}

	m.setUser(&profile)
	m.openChannel(ctx)
	m.log.Info("session.resume.ok", "user", profile.Key())
	return &profile
}

// Login exchanges credentials for a session. On success the token is
// persisted, the profile is fetched, and the realtime channel is opened.
//
// Failures record a user-facing message (the server's when present) and
// are returned to the caller so the initiating surface can react as well.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.begin(true)
	defer m.finish()

	resp, err := m.api.Auth.Login(ctx, email, password)
	if err != nil {
		m.recordFailure(err, "Login failed")
		return err
	}

	if err := m.establish(ctx, resp); err != nil {
		m.recordFailure(err, "Login failed")
		return err
	}

	m.log.Info("session.login.ok")
	return nil
}

// Register creates an account. The backend may or may not auto-
// authenticate: a token in the response establishes a session exactly as
// login does, while a tokenless 2xx completes with no user and no channel,
// leaving the caller to route to the login flow.
func (m *Manager) Register(ctx context.Context, username, email, password, plan string) error {
	m.begin(true)
	defer m.finish()

	resp, err := m.api.Auth.Register(ctx, username, email, password, plan)
	if err != nil {
		m.recordFailure(err, "Registration failed")
		return err
	}

	if resp.BearerToken() == "" {
		m.log.Info("session.register.created_without_token")
		return nil
	}

	if err := m.establish(ctx, resp); err != nil {
		m.recordFailure(err, "Registration failed")
		return err
	}

	m.log.Info("session.register.ok")
	return nil
}

// Logout tears the session down: token deleted, channel closed, user
// cleared. It never fails the caller; a deletion error is logged and
// swallowed because the local state must still reach "logged out".
func (m *Manager) Logout(ctx context.Context) {
	m.begin(false)
	defer m.finish()

	if err := m.store.Delete(); err != nil {
		m.log.Error("session.logout.token_delete_failed", "err", err)
	}
	m.channel.Close()
	m.setUser(nil)
	m.log.Info("session.logout.ok")
}

// FederatedLogin is a contract placeholder. The current backend has no
// federated identity support, so this fails deterministically without
// touching the network or mutating session state beyond the recorded
// error.
func (m *Manager) FederatedLogin(ctx context.Context, identityToken string) error {
	m.begin(true)
	defer m.finish()

	m.mu.Lock()
	m.lastErr = ErrFederatedLoginUnsupported.Error()
	m.mu.Unlock()
	return ErrFederatedLoginUnsupported
}

// establish turns an authentication response into a live session: token
// persisted, profile fetched, channel opened.
//
// The token is persisted before the profile fetch is confirmed. A fetch
// failure therefore leaves a stored token with no in-memory user; the
// next Resume retries silently. The channel is closed on that path so no
// connection leaks out of a failed flow.
func (m *Manager) establish(ctx context.Context, resp api.AuthResponse) error {
	tok := resp.BearerToken()
	if tok == "" {
		return ErrMalformedAuthResponse
	}

	if err := m.store.Save(tok); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	profile, err := m.api.Auth.Profile(ctx)
	if err != nil {
		m.channel.Close()
		return err
	}

	m.setUser(&profile)
	m.openChannel(ctx)
	return nil
}

// openChannel opens the realtime channel, logging (not failing) on error:
// a missing channel degrades consumers to HTTP-only, it does not
// invalidate the session.
func (m *Manager) openChannel(ctx context.Context) {
	if _, err := m.channel.Open(ctx); err != nil {
		m.log.Warn("session.channel_open_failed", "err", err)
	}
}

func (m *Manager) begin(clearErr bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	if clearErr {
		m.lastErr = ""
	}
}

func (m *Manager) finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
}

func (m *Manager) setUser(u *api.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = u
}

// recordFailure stores the user-facing message for passive display. The
// original error still propagates to the caller for active handling.
func (m *Manager) recordFailure(err error, fallback string) {
	msg := api.ErrorMessage(err, fallback)
	if errors.Is(err, ErrMalformedAuthResponse) {
		msg = ErrMalformedAuthResponse.Error()
	}
	m.mu.Lock()
	m.lastErr = msg
	m.mu.Unlock()
	m.log.Warn("session.auth_failed", "err", err)
}
