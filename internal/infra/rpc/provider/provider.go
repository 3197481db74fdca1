// Package provider implements JSON-RPC endpoints.
//
// This package contains:
//   - RPCProvider interface: core abstraction for an RPC endpoint
//   - HTTPProvider: JSON-RPC 2.0 over HTTP implementation
//   - RPCError: structured error returned by the remote side
package provider

import (
	"context"
	"fmt"
	"time"
)

// RPCProvider defines the interface for any JSON-RPC endpoint (node or wallet).
type RPCProvider interface {
	// GetName returns provider identifier (e.g., "infura", "injected")
	GetName() string

	// GetHealth returns current health metrics
	GetHealth() HealthStatus

	// Call makes a single RPC request
	Call(ctx context.Context, method string, params []any) (any, error)

	// BatchCall makes multiple RPC calls in one request
	BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error)

	// Close cleans up resources
	Close() error
}

// BatchRequest represents a single request in a batch call.
type BatchRequest struct {
	Method string
	Params []any
}

// BatchResponse represents a single response from a batch call.
type BatchResponse struct {
	Result any
	Error  error
}

// HealthStatus represents the health state of a provider.
type HealthStatus struct {
	Available     bool
	Latency       time.Duration
	ErrorRate     float64
	LastSuccessAt time.Time
	LastFailureAt time.Time
}

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
