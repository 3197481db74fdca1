// Package wallet owns the wallet session: connector choice, connection state
// and transaction submission through the connected wallet.
package wallet

import (
	"context"
	"fmt"
	"strings"
)

// ConnectorKind is the closed set of supported connection methods.
type ConnectorKind string

const (
	// ConnectorInjected talks to an external wallet's JSON-RPC endpoint,
	// which prompts the user for account access and for every transaction.
	ConnectorInjected ConnectorKind = "injected"

	// ConnectorNode uses accounts unlocked on the node itself (dev chains).
	ConnectorNode ConnectorKind = "node"
)

// ConnectorKinds lists every supported kind in display order.
var ConnectorKinds = []ConnectorKind{ConnectorInjected, ConnectorNode}

// ParseConnectorKind validates a kind from config or flags.
func ParseConnectorKind(s string) (ConnectorKind, error) {
	k := ConnectorKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ConnectorKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown connector %q (want injected or node)", s)
}

// Endpoint is the JSON-RPC surface a connector needs.
// Call may retry; CallOnce must not.
type Endpoint interface {
	Call(ctx context.Context, method string, params []any) (any, error)
	CallOnce(ctx context.Context, method string, params []any) (any, error)
}

// Connector is one way of reaching a wallet.
type Connector struct {
	kind     ConnectorKind
	name     string
	endpoint Endpoint
}

func NewConnector(kind ConnectorKind, endpoint Endpoint) *Connector {
	name := "Injected Wallet"
	if kind == ConnectorNode {
		name = "Node Accounts"
	}
	return &Connector{kind: kind, name: name, endpoint: endpoint}
}

func (c *Connector) Kind() ConnectorKind { return c.kind }
func (c *Connector) Name() string        { return c.name }

// RequestAccounts asks the wallet for its accounts.
// The injected wallet may block here until the user approves.
func (c *Connector) RequestAccounts(ctx context.Context) ([]string, error) {
	method := "eth_requestAccounts"
	if c.kind == ConnectorNode {
		method = "eth_accounts"
	}
	// Account requests can prompt the user; never repeat them.
	result, err := c.endpoint.CallOnce(ctx, method, nil)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	raw, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid %s response", method)
	}
	accounts := make([]string, 0, len(raw))
	for _, a := range raw {
		if s, ok := a.(string); ok && s != "" {
			accounts = append(accounts, s)
		}
	}
	return accounts, nil
}

// ChainID returns the chain the wallet is currently on.
func (c *Connector) ChainID(ctx context.Context) (uint64, error) {
	result, err := c.endpoint.Call(ctx, "eth_chainId", nil)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId failed: %w", err)
	}
	s, _ := result.(string)
	return parseChainID(s)
}

func (c *Connector) sendTransaction(ctx context.Context, tx map[string]any) (string, error) {
	result, err := c.endpoint.CallOnce(ctx, "eth_sendTransaction", []any{tx})
	if err != nil {
		return "", err
	}
	hash, ok := result.(string)
	if !ok || hash == "" {
		return "", fmt.Errorf("invalid eth_sendTransaction response")
	}
	return hash, nil
}
