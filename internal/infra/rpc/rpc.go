// Package rpc provides the JSON-RPC client used to talk to nodes and wallets.
//
// # Quick Start
//
//	client := rpc.NewClientFromURLs(cfg.Network.RPCURLs, 30*time.Second)
//	defer client.Close()
//
//	// Read calls fail over across endpoints and retry transient errors
//	result, err := client.Call(ctx, "eth_chainId", nil)
//
//	// Calls with side effects go to the first endpoint exactly once
//	hash, err := client.CallOnce(ctx, "eth_sendTransaction", []any{tx})
//
//	// Independent reads can share one request
//	responses, err := client.BatchCall(ctx, []rpc.BatchRequest{...})
//
// # Package Structure
//
//   - provider/ - HTTPProvider, RPCError
//   - routing/  - error classification, retry and failover
package rpc

import (
	"context"

	"github.com/vietddude/tokensend/internal/infra/rpc/provider"
)

// Caller is the minimal interface consumers depend on.
type Caller interface {
	Call(ctx context.Context, method string, params []any) (any, error)
}

// BatchCaller sends several calls in one round trip.
type BatchCaller interface {
	BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error)
}

// BatchRequest represents a single request in a batch call.
type BatchRequest = provider.BatchRequest

// BatchResponse represents a single response from a batch call.
type BatchResponse = provider.BatchResponse
