package evm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vietddude/tokensend/internal/infra/rpc"
)

const usdc = "0x94a9D9AC8a22534E3FaCa9F4e7F2E2cf85d5E4C8"

// abiString encodes s as an ABI dynamic string return value.
func abiString(s string) string {
	data := fmt.Sprintf("%064x%064x", 32, len(s))
	word := fmt.Sprintf("%x", s)
	return "0x" + data + word + strings.Repeat("0", 64-len(word))
}

func abiUint(n uint64) string {
	return fmt.Sprintf("0x%064x", n)
}

type batchCaller struct {
	MockCaller
	batches  int
	requests []rpc.BatchRequest
	respond  func(req rpc.BatchRequest) rpc.BatchResponse
}

func (b *batchCaller) BatchCall(ctx context.Context, requests []rpc.BatchRequest) ([]rpc.BatchResponse, error) {
	b.batches++
	b.requests = requests
	out := make([]rpc.BatchResponse, len(requests))
	for i, r := range requests {
		out[i] = b.respond(r)
	}
	return out, nil
}

func callTarget(req rpc.BatchRequest) (to, data string) {
	msg := req.Params[0].(map[string]any)
	return msg["to"].(string), msg["data"].(string)
}

func TestTokenMetadata_Batched(t *testing.T) {
	bc := &batchCaller{respond: func(req rpc.BatchRequest) rpc.BatchResponse {
		to, data := callTarget(req)
		switch {
		case to == weth && data == EncodeData(SelectorSymbol[:]):
			return rpc.BatchResponse{Result: abiString("WETH")}
		case to == weth && data == EncodeData(SelectorDecimals[:]):
			return rpc.BatchResponse{Result: abiUint(18)}
		case to == usdc && data == EncodeData(SelectorSymbol[:]):
			return rpc.BatchResponse{Error: errors.New("execution reverted")}
		default:
			return rpc.BatchResponse{Result: abiUint(6)}
		}
	}}
	r := NewReader(bc, Config{})

	infos, err := r.TokenMetadata(context.Background(), []string{weth, usdc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bc.batches != 1 || len(bc.requests) != 4 {
		t.Errorf("expected one batch of 4 calls, got %d batches, %d calls", bc.batches, len(bc.requests))
	}
	if len(bc.Calls) != 0 {
		t.Errorf("batched reads must not fall back to single calls: %v", bc.Calls)
	}
	if infos[0].Symbol != "WETH" || infos[0].Decimals != 18 || infos[0].SymbolErr != nil || infos[0].DecimalsErr != nil {
		t.Errorf("unexpected WETH metadata: %+v", infos[0])
	}
	if infos[1].SymbolErr == nil || infos[1].Decimals != 6 {
		t.Errorf("expected per-field failure for USDC symbol: %+v", infos[1])
	}
}

func TestTokenMetadata_Sequential(t *testing.T) {
	mock := &MockCaller{CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
		data := params[0].(map[string]any)["data"].(string)
		if data == EncodeData(SelectorSymbol[:]) {
			return abiString("WETH"), nil
		}
		return abiUint(18), nil
	}}
	r := NewReader(mock, Config{})

	infos, err := r.TokenMetadata(context.Background(), []string{weth})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) != 2 || infos[0].Symbol != "WETH" || infos[0].Decimals != 18 {
		t.Errorf("unexpected result %+v after calls %v", infos[0], mock.Calls)
	}
}

func TestTokenMetadata_InvalidContract(t *testing.T) {
	r := NewReader(&MockCaller{}, Config{})
	if _, err := r.TokenMetadata(context.Background(), []string{"0x123"}); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}
