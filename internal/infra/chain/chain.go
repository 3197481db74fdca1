package chain

import (
	"context"
	"math/big"

	"github.com/vietddude/tokensend/internal/core/domain"
)

// Reader defines the read-only chain boundary used by the UI and the orchestrator.
type Reader interface {
	// ChainID returns the chain id reported by the node
	ChainID(ctx context.Context) (uint64, error)

	// NativeBalance returns the native currency balance in smallest units
	NativeBalance(ctx context.Context, owner string) (*big.Int, error)

	// TokenBalance returns an ERC-20 balance in smallest units
	TokenBalance(ctx context.Context, contract, owner string) (*big.Int, error)

	// TokenDecimals reads decimals() from a token contract
	TokenDecimals(ctx context.Context, contract string) (uint8, error)

	// TokenSymbol reads symbol() from a token contract
	TokenSymbol(ctx context.Context, contract string) (string, error)
}

// Confirmer waits for a submitted transaction to reach a terminal state.
type Confirmer interface {
	WaitForConfirmation(ctx context.Context, handle domain.TxHandle) (domain.Receipt, error)
}
