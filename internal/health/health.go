// Package health reports whether the configured network is reachable.
package health

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// ProviderHealth is the view of one RPC endpoint.
type ProviderHealth struct {
	Name      string       `json:"name"`
	Status    SystemStatus `json:"status"`
	ErrorRate float64      `json:"error_rate"`
	LatencyMS int64        `json:"latency_ms"`
}

// NetworkHealth contains health data for the configured network.
type NetworkHealth struct {
	Network     string           `json:"network"`
	ChainID     uint64           `json:"chain_id"`
	Status      SystemStatus     `json:"status"`
	BlockNumber uint64           `json:"block_number"`
	Error       string           `json:"error,omitempty"`
	Providers   []ProviderHealth `json:"providers"`
}
