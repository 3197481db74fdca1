package evm

import (
	"context"
	"fmt"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/infra/rpc"
)

// TokenInfo is the on-chain metadata of one token contract.
// SymbolErr and DecimalsErr are set per field when that read failed.
type TokenInfo struct {
	Contract    string
	Symbol      string
	Decimals    uint8
	SymbolErr   error
	DecimalsErr error
}

// TokenMetadata reads symbol() and decimals() of every contract. When the
// client supports batching all reads share one request; otherwise they are
// issued one by one.
func (r *Reader) TokenMetadata(ctx context.Context, contracts []string) ([]TokenInfo, error) {
	if len(contracts) == 0 {
		return nil, nil
	}
	for _, c := range contracts {
		if !domain.IsHexAddress(c) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, c)
		}
	}
	bc, ok := r.client.(rpc.BatchCaller)
	if !ok {
		return r.tokenMetadataSequential(ctx, contracts), nil
	}

	requests := make([]rpc.BatchRequest, 0, 2*len(contracts))
	for _, c := range contracts {
		requests = append(requests,
			ethCallRequest(c, SelectorSymbol[:]),
			ethCallRequest(c, SelectorDecimals[:]),
		)
	}
	responses, err := bc.BatchCall(ctx, requests)
	if err != nil {
		return nil, fmt.Errorf("token metadata batch: %w", err)
	}
	if len(responses) != len(requests) {
		return nil, fmt.Errorf("token metadata batch: got %d responses for %d requests", len(responses), len(requests))
	}

	out := make([]TokenInfo, len(contracts))
	for i, c := range contracts {
		info := TokenInfo{Contract: c}
		if raw, err := batchString(responses[2*i]); err != nil {
			info.SymbolErr = fmt.Errorf("symbol failed: %w", err)
		} else {
			info.Symbol, info.SymbolErr = DecodeString(raw)
		}
		if raw, err := batchString(responses[2*i+1]); err != nil {
			info.DecimalsErr = fmt.Errorf("decimals failed: %w", err)
		} else {
			info.Decimals, info.DecimalsErr = decodeDecimals(raw)
		}
		out[i] = info
	}
	return out, nil
}

func (r *Reader) tokenMetadataSequential(ctx context.Context, contracts []string) []TokenInfo {
	out := make([]TokenInfo, len(contracts))
	for i, c := range contracts {
		out[i].Contract = c
		out[i].Symbol, out[i].SymbolErr = r.TokenSymbol(ctx, c)
		out[i].Decimals, out[i].DecimalsErr = r.TokenDecimals(ctx, c)
	}
	return out
}

func ethCallRequest(contract string, data []byte) rpc.BatchRequest {
	return rpc.BatchRequest{
		Method: "eth_call",
		Params: []any{map[string]any{"to": contract, "data": EncodeData(data)}, "latest"},
	}
}

func batchString(resp rpc.BatchResponse) (string, error) {
	if resp.Error != nil {
		return "", resp.Error
	}
	s, ok := resp.Result.(string)
	if !ok {
		return "", fmt.Errorf("invalid eth_call response")
	}
	return s, nil
}
