package ui

import (
	"math/big"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/notify"
)

type connectedMsg struct {
	state domain.ConnectionState
	err   error
}

type disconnectedMsg struct{}

type balancesMsg struct {
	owner  string
	symbol string // selected asset when the refresh started
	native *big.Int
	token  *big.Int
	err    error
}

type submittedMsg struct {
	asset  domain.AssetDescriptor
	handle domain.TxHandle
	err    error
}

type confirmedMsg struct {
	handle  domain.TxHandle
	receipt domain.Receipt
	err     error
}

type notificationMsg struct {
	note notify.Notification
}
