package realtime

import "time"

// Transport limits for the client connection.
const (
	// Max bytes per websocket frame read (hard limit).
	maxFrameBytes = 1 << 20 // 1 MiB

	// Bounded outbound queue per connection.
	sendQueueSize = 64

	// Per-frame write deadline.
	writeTimeout = 10 * time.Second

	// Dial deadline when the caller's context has none.
	dialTimeout = 10 * time.Second
)
