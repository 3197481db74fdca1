package ui

import (
	"context"
	"math/big"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/wallet"
)

// Session is the wallet side the UI drives.
type Session interface {
	Connectors() []*wallet.Connector
	State() domain.ConnectionState
	Connect(ctx context.Context, kind wallet.ConnectorKind) (domain.ConnectionState, error)
	Disconnect()
}

// Balances reads balances from the chain.
type Balances interface {
	NativeBalance(ctx context.Context, owner string) (*big.Int, error)
	TokenBalance(ctx context.Context, contract, owner string) (*big.Int, error)
}

// Transfers submits and tracks transfers.
type Transfers interface {
	Ready(req domain.TransferRequest) bool
	Submit(ctx context.Context, req domain.TransferRequest) (domain.TxHandle, error)
	Track(ctx context.Context, asset domain.AssetDescriptor, handle domain.TxHandle) (domain.Receipt, error)
}
