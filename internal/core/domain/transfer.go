package domain

import "math/big"

// TransferRequest is built per submission attempt from the user's input.
type TransferRequest struct {
	Recipient string
	Amount    string
	Asset     AssetDescriptor
}

// TxRequest is the transaction handed to the wallet for submission.
type TxRequest struct {
	From    string
	To      string
	Value   *big.Int
	Data    []byte
	ChainID uint64
}

// TxHandle identifies a submitted transaction (its hash).
type TxHandle string

func (h TxHandle) String() string { return string(h) }

// Short renders the handle as 0x1234...abcd.
func (h TxHandle) Short() string {
	s := string(h)
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// Receipt is the confirmation outcome of a transaction.
type Receipt struct {
	Handle      TxHandle
	BlockNumber uint64
	GasUsed     uint64
	Status      TxStatus
}

type TxStatus string

const (
	TxStatusSuccess  TxStatus = "success"
	TxStatusReverted TxStatus = "reverted"
)

// TransferPhase tracks a submission from input to a terminal state.
type TransferPhase int

const (
	PhaseIdle TransferPhase = iota
	PhaseSubmitting
	PhaseConfirming
	PhaseConfirmed
	PhaseFailed
)

func (p TransferPhase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseConfirming:
		return "confirming"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// InFlight reports whether a submission or confirmation is pending.
func (p TransferPhase) InFlight() bool {
	return p == PhaseSubmitting || p == PhaseConfirming
}
