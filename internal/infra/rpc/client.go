package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vietddude/tokensend/internal/infra/rpc/provider"
	"github.com/vietddude/tokensend/internal/infra/rpc/routing"
)

// Client is the high-level interface for making RPC calls.
// This is what application layers should use.
type Client struct {
	providers []provider.RPCProvider
	retry     routing.RetryConfig
}

// NewClient creates a client over providers, tried in order.
func NewClient(providers ...provider.RPCProvider) *Client {
	return &Client{
		providers: providers,
		retry:     routing.DefaultRetryConfig,
	}
}

// NewClientFromURLs creates an HTTP provider per endpoint, named after its host.
func NewClientFromURLs(urls []string, timeout time.Duration) *Client {
	providers := make([]provider.RPCProvider, 0, len(urls))
	for i, u := range urls {
		providers = append(providers, provider.NewHTTPProvider(providerName(u, i), u, timeout))
	}
	return NewClient(providers...)
}

// Call makes a read call with retry and failover across providers.
func (c *Client) Call(ctx context.Context, method string, params []any) (any, error) {
	return routing.CallWithRetryAndFailover(ctx, c.providers, method, params, c.retry)
}

// CallOnce sends the call to the first provider without retry.
// Use it for calls with side effects such as eth_sendTransaction.
func (c *Client) CallOnce(ctx context.Context, method string, params []any) (any, error) {
	if len(c.providers) == 0 {
		return nil, routing.ErrNoProviders
	}
	return c.providers[0].Call(ctx, method, params)
}

// BatchCall sends a batch to the first provider that accepts it.
func (c *Client) BatchCall(ctx context.Context, requests []BatchRequest) ([]BatchResponse, error) {
	if len(c.providers) == 0 {
		return nil, routing.ErrNoProviders
	}

	var lastErr error
	for _, p := range c.providers {
		responses, err := p.BatchCall(ctx, requests)
		if err == nil {
			return responses, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}
	return nil, fmt.Errorf("batch failed on all providers: %w", lastErr)
}

// Providers returns the configured providers in order.
func (c *Client) Providers() []provider.RPCProvider {
	return c.providers
}

// Close releases provider resources.
func (c *Client) Close() error {
	var errs []error
	for _, p := range c.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func providerName(endpoint string, i int) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("rpc-%d", i)
	}
	return u.Hostname()
}
