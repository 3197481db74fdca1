package evm

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/vietddude/tokensend/internal/infra/rpc"
)

const sepoliaWETH = "0xfFf9976782d46CC05630D1f6eB9Bc98210fA7378"

// TestReader_Live reads from a real Sepolia endpoint. Set E2E_LIVE=1 and
// optionally RPC_URL to run it.
func TestReader_Live(t *testing.T) {
	if os.Getenv("E2E_LIVE") == "" {
		t.Skip("Skipping live test; set E2E_LIVE=1 to run")
	}
	url := os.Getenv("RPC_URL")
	if url == "" {
		url = "https://ethereum-sepolia-rpc.publicnode.com"
	}

	client := rpc.NewClientFromURLs([]string{url}, 15*time.Second)
	defer client.Close()
	r := NewReader(client, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	chainID, err := r.ChainID(ctx)
	if err != nil {
		t.Fatalf("ChainID: %v", err)
	}
	if chainID != 11155111 {
		t.Fatalf("expected Sepolia, got chain %d", chainID)
	}

	dec, err := r.TokenDecimals(ctx, sepoliaWETH)
	if err != nil || dec != 18 {
		t.Errorf("WETH decimals = %d, %v", dec, err)
	}
	sym, err := r.TokenSymbol(ctx, sepoliaWETH)
	if err != nil || sym != "WETH" {
		t.Errorf("WETH symbol = %q, %v", sym, err)
	}
	if _, err := r.TokenBalance(ctx, sepoliaWETH, sepoliaWETH); err != nil {
		t.Errorf("TokenBalance: %v", err)
	}
	t.Logf("chain %d, WETH %s/%d", chainID, sym, dec)
}
