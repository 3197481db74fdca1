package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/infra/rpc/provider"
)

// ChainStatus reads the chain id and head from the network.
type ChainStatus interface {
	ChainID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Monitor aggregates network and provider health.
type Monitor struct {
	network   domain.Network
	chain     ChainStatus
	providers []provider.RPCProvider
	ttl       time.Duration

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport *NetworkHealth
}

// NewMonitor creates a new health monitor.
func NewMonitor(network domain.Network, chain ChainStatus, providers []provider.RPCProvider) *Monitor {
	return &Monitor{
		network:   network,
		chain:     chain,
		providers: providers,
		ttl:       10 * time.Second,
	}
}

// CheckHealth queries the network, reusing a recent report to avoid spamming RPC.
func (m *Monitor) CheckHealth(ctx context.Context) NetworkHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && time.Since(m.lastCheck) < m.ttl {
		return *m.lastReport
	}

	report := NetworkHealth{
		Network: m.network.Name,
		ChainID: m.network.ChainID,
		Status:  StatusHealthy,
	}

	for _, p := range m.providers {
		h := p.GetHealth()
		ph := ProviderHealth{
			Name:      p.GetName(),
			Status:    StatusHealthy,
			ErrorRate: h.ErrorRate,
			LatencyMS: h.Latency.Milliseconds(),
		}
		if !h.Available {
			ph.Status = StatusCritical
		} else if h.ErrorRate > 0.2 {
			ph.Status = StatusDegraded
		}
		report.Providers = append(report.Providers, ph)
	}

	chainID, err := m.chain.ChainID(ctx)
	switch {
	case err != nil:
		report.Status = StatusCritical
		report.Error = err.Error()
	case chainID != m.network.ChainID:
		report.Status = StatusCritical
		report.Error = fmt.Sprintf("endpoint serves chain %d", chainID)
	default:
		head, err := m.chain.BlockNumber(ctx)
		if err != nil {
			report.Status = StatusDegraded
			report.Error = err.Error()
		}
		report.BlockNumber = head
	}

	if report.Status == StatusHealthy {
		for _, p := range report.Providers {
			if p.Status != StatusHealthy {
				report.Status = StatusDegraded
				break
			}
		}
	}

	m.lastCheck = time.Now()
	m.lastReport = &report
	return report
}
