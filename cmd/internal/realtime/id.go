package realtime

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// newEventID returns a new ULID string for outbound envelopes.
// ULIDs are lexicographically sortable, which keeps client-generated ids
// useful for server-side dedupe windows.
func newEventID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
