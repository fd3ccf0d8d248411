package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	channelOpens = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curio_channel_opens_total",
		Help: "Realtime connections established.",
	})

	channelEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curio_channel_events_total",
		Help: "Inbound realtime events by type.",
	}, []string{"type"})

	channelEmits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curio_channel_emits_total",
		Help: "Outbound realtime events by type.",
	}, []string{"type"})
)
