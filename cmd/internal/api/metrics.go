package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "curio_http_requests_total",
		Help: "Outgoing API requests by method and status class.",
	},
	[]string{"method", "class"},
)
