package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersSubmitted tracks transactions accepted by the wallet
	TransfersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensend_transfers_submitted_total",
			Help: "Total number of transfers accepted by the wallet",
		},
		[]string{"asset"},
	)

	// TransfersConfirmed tracks transactions mined successfully
	TransfersConfirmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensend_transfers_confirmed_total",
			Help: "Total number of confirmed transfers",
		},
		[]string{"asset"},
	)

	// TransfersFailed tracks failures by stage (submit, confirm)
	TransfersFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensend_transfers_failed_total",
			Help: "Total number of failed transfers",
		},
		[]string{"asset", "stage"},
	)

	// RPCCallsTotal tracks RPC calls per provider
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensend_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"provider", "method"},
	)

	// RPCErrorsTotal tracks RPC errors per provider
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensend_rpc_errors_total",
			Help: "Total number of RPC errors",
		},
		[]string{"provider", "method"},
	)

	// RPCLatency tracks RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tokensend_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// NotificationsDropped counts notifications a sink could not deliver
	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tokensend_notifications_dropped_total",
			Help: "Total number of notifications dropped by a sink",
		},
		[]string{"sink"},
	)
)
