package api

import (
	"errors"
	"log/slog"
	"net/http"

	"curio/cmd/internal/secrets"
)

// authTransport attaches the stored bearer token to every outgoing request
// and purges the token when the server answers 401.
//
// It deliberately does NOT reach into the session manager: the manager's
// next operation observes the absent token and falls back to the
// unauthenticated state on its own, which keeps the dependency graph
// acyclic (session -> api, never api -> session).
type authTransport struct {
	next  http.RoundTripper
	store secrets.Store
	log   *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.store.Load()
	switch {
	case err == nil:
		// Clone before mutating; the request may be retried by callers.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	case errors.Is(err, secrets.ErrNotFound):
		// Unauthenticated request, send as-is.
	default:
		t.log.Warn("api.token.load_failed", "err", err)
	}

	resp, rerr := t.next.RoundTrip(req)
	if rerr != nil {
		return nil, rerr
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Purge as a side effect; the error propagates unchanged.
		if derr := t.store.Delete(); derr != nil {
			t.log.Warn("api.token.purge_failed", "err", derr)
		} else {
			t.log.Info("api.token.purged", "path", req.URL.Path)
		}
	}
	return resp, nil
}
