package evm

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/vietddude/tokensend/internal/core/domain"
)

// MockCaller implements rpc.Caller for testing
type MockCaller struct {
	CallFunc func(ctx context.Context, method string, params []any) (any, error)
	Calls    []string
}

func (m *MockCaller) Call(ctx context.Context, method string, params []any) (any, error) {
	m.Calls = append(m.Calls, method)
	if m.CallFunc != nil {
		return m.CallFunc(ctx, method, params)
	}
	return nil, nil
}

const (
	owner = "0x1111111111111111111111111111111111111111"
	weth  = "0xfFf9976782d46CC05630D1f6eB9Bc98210fA7378"
)

func TestReader_NativeBalance(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method != "eth_getBalance" {
				t.Errorf("unexpected method %s", method)
			}
			if params[0] != owner || params[1] != "latest" {
				t.Errorf("unexpected params %v", params)
			}
			return "0xde0b6b3a7640000", nil // 1 ETH
		},
	}

	r := NewReader(mock, Config{})
	bal, err := r.NativeBalance(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bal.String() != "1000000000000000000" {
		t.Errorf("expected 1 ETH, got %s", bal)
	}
}

func TestReader_TokenBalance(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method != "eth_call" {
				t.Errorf("unexpected method %s", method)
			}
			msg := params[0].(map[string]any)
			if msg["to"] != weth {
				t.Errorf("unexpected contract %v", msg["to"])
			}
			if msg["data"] != "0x70a082310000000000000000000000001111111111111111111111111111111111111111" {
				t.Errorf("unexpected data %v", msg["data"])
			}
			return "0x00000000000000000000000000000000000000000000000000000000000003e8", nil
		},
	}

	r := NewReader(mock, Config{})
	bal, err := r.TokenBalance(context.Background(), weth, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bal.Int64() != 1000 {
		t.Errorf("expected 1000, got %s", bal)
	}
}

func TestReader_TokenMetadata(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			data := params[0].(map[string]any)["data"]
			switch data {
			case "0x313ce567":
				return "0x0000000000000000000000000000000000000000000000000000000000000012", nil
			case "0x95d89b41":
				return "0x" +
					"0000000000000000000000000000000000000000000000000000000000000020" +
					"0000000000000000000000000000000000000000000000000000000000000004" +
					"5745544800000000000000000000000000000000000000000000000000000000", nil
			}
			return nil, errors.New("unexpected call")
		},
	}

	r := NewReader(mock, Config{})
	dec, err := r.TokenDecimals(context.Background(), weth)
	if err != nil || dec != 18 {
		t.Errorf("expected 18 decimals, got %d (%v)", dec, err)
	}
	sym, err := r.TokenSymbol(context.Background(), weth)
	if err != nil || sym != "WETH" {
		t.Errorf("expected WETH, got %q (%v)", sym, err)
	}
}

func TestReader_ChainID(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return "0xaa36a7", nil
		},
	}
	id, err := NewReader(mock, Config{}).ChainID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 11155111 {
		t.Errorf("expected sepolia chain id, got %d", id)
	}
}

func TestReader_WaitForConfirmation(t *testing.T) {
	polls := 0
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			if method != "eth_getTransactionReceipt" {
				t.Errorf("unexpected method %s", method)
			}
			polls++
			if polls < 3 {
				return nil, nil // pending
			}
			return map[string]any{
				"blockNumber": "0x10",
				"gasUsed":     "0x5208",
				"status":      "0x1",
			}, nil
		},
	}

	r := NewReader(mock, Config{PollInterval: time.Millisecond, ConfirmTimeout: time.Second})
	receipt, err := r.WaitForConfirmation(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Status != domain.TxStatusSuccess || receipt.BlockNumber != 16 || receipt.GasUsed != 21000 {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
	if polls != 3 {
		t.Errorf("expected 3 polls, got %d", polls)
	}
}

func TestReader_WaitForConfirmation_Depth(t *testing.T) {
	head := uint64(0x10)
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			switch method {
			case "eth_getTransactionReceipt":
				return map[string]any{"blockNumber": "0x10", "status": "0x1"}, nil
			case "eth_blockNumber":
				head++
				return EncodeQuantity(new(big.Int).SetUint64(head)), nil
			}
			return nil, nil
		},
	}

	r := NewReader(mock, Config{Confirmations: 3, PollInterval: time.Millisecond, ConfirmTimeout: time.Second})
	if _, err := r.WaitForConfirmation(context.Background(), "0xabc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// head 0x11 -> 2 confs, head 0x12 -> 3 confs
	if head != 0x12 {
		t.Errorf("expected to stop at head 0x12, got 0x%x", head)
	}
}

func TestReader_WaitForConfirmation_Reverted(t *testing.T) {
	mock := &MockCaller{
		CallFunc: func(ctx context.Context, method string, params []any) (any, error) {
			return map[string]any{"blockNumber": "0x10", "status": "0x0"}, nil
		},
	}

	r := NewReader(mock, Config{PollInterval: time.Millisecond, ConfirmTimeout: time.Second})
	receipt, err := r.WaitForConfirmation(context.Background(), "0xabc")
	if !errors.Is(err, ErrReverted) {
		t.Fatalf("expected ErrReverted, got %v", err)
	}
	if receipt.Status != domain.TxStatusReverted {
		t.Errorf("expected reverted receipt, got %+v", receipt)
	}
}

func TestReader_WaitForConfirmation_Timeout(t *testing.T) {
	mock := &MockCaller{}

	r := NewReader(mock, Config{PollInterval: time.Millisecond, ConfirmTimeout: 20 * time.Millisecond})
	if _, err := r.WaitForConfirmation(context.Background(), "0xabc"); !errors.Is(err, ErrConfirmationTimeout) {
		t.Fatalf("expected ErrConfirmationTimeout, got %v", err)
	}
}

func TestReader_InvalidOwner(t *testing.T) {
	mock := &MockCaller{}
	r := NewReader(mock, Config{})
	if _, err := r.NativeBalance(context.Background(), "not-an-address"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("expected no rpc calls, got %v", mock.Calls)
	}
}
