package evm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/infra/chain"
	"github.com/vietddude/tokensend/internal/infra/rpc"
)

var (
	ErrReverted            = errors.New("transaction reverted")
	ErrConfirmationTimeout = errors.New("transaction not confirmed in time (dropped or still pending)")
)

// Config tunes confirmation tracking.
type Config struct {
	Confirmations  uint64
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
}

var (
	_ chain.Reader    = (*Reader)(nil)
	_ chain.Confirmer = (*Reader)(nil)
)

// Reader implements chain.Reader and chain.Confirmer over JSON-RPC.
type Reader struct {
	client rpc.Caller
	cfg    Config
	log    *slog.Logger
}

func NewReader(client rpc.Caller, cfg Config) *Reader {
	if cfg.Confirmations == 0 {
		cfg.Confirmations = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 4 * time.Second
	}
	return &Reader{
		client: client,
		cfg:    cfg,
		log:    slog.Default().With("component", "evm"),
	}
}

func (r *Reader) ChainID(ctx context.Context) (uint64, error) {
	result, err := r.client.Call(ctx, "eth_chainId", nil)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId failed: %w", err)
	}
	return parseHexString(getString(result))
}

func (r *Reader) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := r.client.Call(ctx, "eth_blockNumber", nil)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber failed: %w", err)
	}
	blockHex, ok := result.(string)
	if !ok {
		return 0, fmt.Errorf("invalid block number response")
	}
	return parseHexString(blockHex)
}

func (r *Reader) NativeBalance(ctx context.Context, owner string) (*big.Int, error) {
	if !domain.IsHexAddress(owner) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, owner)
	}
	result, err := r.client.Call(ctx, "eth_getBalance", []any{owner, "latest"})
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance failed: %w", err)
	}
	s, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("invalid balance response")
	}
	return parseHexToBigInt(s)
}

func (r *Reader) TokenBalance(ctx context.Context, contract, owner string) (*big.Int, error) {
	data, err := EncodeBalanceOf(owner)
	if err != nil {
		return nil, err
	}
	result, err := r.call(ctx, contract, data)
	if err != nil {
		return nil, fmt.Errorf("balanceOf failed: %w", err)
	}
	return DecodeUint256(result)
}

func (r *Reader) TokenDecimals(ctx context.Context, contract string) (uint8, error) {
	result, err := r.call(ctx, contract, SelectorDecimals[:])
	if err != nil {
		return 0, fmt.Errorf("decimals failed: %w", err)
	}
	return decodeDecimals(result)
}

func decodeDecimals(result string) (uint8, error) {
	n, err := DecodeUint256(result)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() || n.Uint64() > 255 {
		return 0, fmt.Errorf("decimals out of range: %s", n)
	}
	return uint8(n.Uint64()), nil
}

func (r *Reader) TokenSymbol(ctx context.Context, contract string) (string, error) {
	result, err := r.call(ctx, contract, SelectorSymbol[:])
	if err != nil {
		return "", fmt.Errorf("symbol failed: %w", err)
	}
	return DecodeString(result)
}

func (r *Reader) call(ctx context.Context, contract string, data []byte) (string, error) {
	if !domain.IsHexAddress(contract) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, contract)
	}
	msg := map[string]any{
		"to":   contract,
		"data": EncodeData(data),
	}
	result, err := r.client.Call(ctx, "eth_call", []any{msg, "latest"})
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("invalid eth_call response")
	}
	return s, nil
}

// Receipt fetches the receipt of handle; nil means not yet mined.
func (r *Reader) Receipt(ctx context.Context, handle domain.TxHandle) (*domain.Receipt, error) {
	result, err := r.client.Call(ctx, "eth_getTransactionReceipt", []any{handle.String()})
	if err != nil {
		return nil, fmt.Errorf("eth_getTransactionReceipt failed: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	raw, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid receipt format")
	}
	return parseReceipt(handle, raw)
}

func parseReceipt(handle domain.TxHandle, raw map[string]any) (*domain.Receipt, error) {
	blockNumber, err := parseHexString(getString(raw["blockNumber"]))
	if err != nil {
		return nil, fmt.Errorf("invalid receipt block number: %w", err)
	}
	gasUsed, _ := parseHexString(getString(raw["gasUsed"]))

	status := domain.TxStatusSuccess
	if getString(raw["status"]) == "0x0" {
		status = domain.TxStatusReverted
	}

	return &domain.Receipt{
		Handle:      handle,
		BlockNumber: blockNumber,
		GasUsed:     gasUsed,
		Status:      status,
	}, nil
}

// WaitForConfirmation polls for the receipt until it is Confirmations deep,
// reverted, or ConfirmTimeout elapses.
func (r *Reader) WaitForConfirmation(ctx context.Context, handle domain.TxHandle) (domain.Receipt, error) {
	if r.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ConfirmTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := r.checkConfirmed(ctx, handle)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Receipt{}, r.waitErr(ctx)
			}
			// Transient read failure; keep polling until the deadline.
			r.log.Warn("receipt poll failed", "tx", handle, "error", err)
		}
		if receipt != nil {
			if receipt.Status == domain.TxStatusReverted {
				return *receipt, fmt.Errorf("%w in block %d", ErrReverted, receipt.BlockNumber)
			}
			return *receipt, nil
		}

		select {
		case <-ctx.Done():
			return domain.Receipt{}, r.waitErr(ctx)
		case <-ticker.C:
		}
	}
}

func (r *Reader) checkConfirmed(ctx context.Context, handle domain.TxHandle) (*domain.Receipt, error) {
	receipt, err := r.Receipt(ctx, handle)
	if err != nil || receipt == nil {
		return nil, err
	}
	if receipt.Status == domain.TxStatusReverted || r.cfg.Confirmations <= 1 {
		return receipt, nil
	}

	head, err := r.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	if head+1 < receipt.BlockNumber+r.cfg.Confirmations {
		r.log.Debug("waiting for confirmations", "tx", handle, "block", receipt.BlockNumber, "head", head)
		return nil, nil
	}
	return receipt, nil
}

func (r *Reader) waitErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrConfirmationTimeout
	}
	return ctx.Err()
}
