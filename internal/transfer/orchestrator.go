// Package transfer builds, submits and tracks native and token transfers.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/metrics"
	"github.com/vietddude/tokensend/internal/notify"
)

var (
	// ErrNotReady means the request is incomplete or no wallet is connected.
	ErrNotReady         = errors.New("transfer not ready")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// Notification texts.
const (
	TitleInitiated     = "Transaction initiated. Please confirm in wallet."
	TitleSubmitFailed  = "Transaction Failed"
	TitleConfirmed     = "Transaction Confirmed"
	TitleConfirmFailed = "Confirmation Failed"
)

// Wallet is the submission side of the wallet session.
type Wallet interface {
	State() domain.ConnectionState
	SendTransaction(ctx context.Context, tx domain.TxRequest) (domain.TxHandle, error)
}

// Confirmer waits for a transaction to reach a terminal state.
type Confirmer interface {
	WaitForConfirmation(ctx context.Context, handle domain.TxHandle) (domain.Receipt, error)
}

// Orchestrator submits transfers and maps their terminal states to notifications.
// It never retries; the user resubmits manually.
type Orchestrator struct {
	wallet    Wallet
	confirmer Confirmer
	notifier  notify.Sink
	chainID   uint64
	log       *slog.Logger
}

func NewOrchestrator(wallet Wallet, confirmer Confirmer, notifier notify.Sink, chainID uint64) *Orchestrator {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Orchestrator{
		wallet:    wallet,
		confirmer: confirmer,
		notifier:  notifier,
		chainID:   chainID,
		log:       slog.Default().With("component", "transfer"),
	}
}

// Ready reports whether req may be submitted right now.
func (o *Orchestrator) Ready(req domain.TransferRequest) bool {
	return o.wallet.State().Connected() &&
		strings.TrimSpace(req.Recipient) != "" &&
		strings.TrimSpace(req.Amount) != ""
}

// Submit validates, encodes and submits req through the wallet.
// Validation failures return without touching the wallet or notifying.
func (o *Orchestrator) Submit(ctx context.Context, req domain.TransferRequest) (domain.TxHandle, error) {
	if !o.Ready(req) {
		return "", ErrNotReady
	}

	from := o.wallet.State().Address
	tx, err := BuildTx(req, from, o.chainID)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	log := o.log.With("submission", id, "asset", req.Asset.Symbol)
	log.Info("submitting transfer", "to", tx.To, "value", tx.Value, "data_len", len(tx.Data))
	notify.Info(o.notifier, TitleInitiated, "")

	handle, err := o.wallet.SendTransaction(ctx, tx)
	if err != nil {
		metrics.TransfersFailed.WithLabelValues(req.Asset.Symbol, "submit").Inc()
		log.Warn("transfer submission failed", "error", err)
		notify.Error(o.notifier, TitleSubmitFailed, err.Error())
		return "", fmt.Errorf("send transaction: %w", err)
	}

	metrics.TransfersSubmitted.WithLabelValues(req.Asset.Symbol).Inc()
	log.Info("transfer submitted", "tx", handle)
	return handle, nil
}

// Track waits for handle to confirm and emits exactly one terminal notification.
func (o *Orchestrator) Track(ctx context.Context, asset domain.AssetDescriptor, handle domain.TxHandle) (domain.Receipt, error) {
	receipt, err := o.confirmer.WaitForConfirmation(ctx, handle)
	if err != nil {
		metrics.TransfersFailed.WithLabelValues(asset.Symbol, "confirm").Inc()
		o.log.Warn("transfer confirmation failed", "tx", handle, "error", err)
		notify.Error(o.notifier, TitleConfirmFailed, err.Error())
		return receipt, err
	}

	metrics.TransfersConfirmed.WithLabelValues(asset.Symbol).Inc()
	o.log.Info("transfer confirmed", "tx", handle, "block", receipt.BlockNumber)
	notify.Success(o.notifier, TitleConfirmed, "Hash: "+handle.String())
	return receipt, nil
}
