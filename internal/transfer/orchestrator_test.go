package transfer

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/infra/chain/evm"
	"github.com/vietddude/tokensend/internal/notify"
)

const (
	sender    = "0x1111111111111111111111111111111111111111"
	recipient = "0x2222222222222222222222222222222222222222"
)

var (
	eth  = domain.AssetDescriptor{Name: "Sepolia ETH", Symbol: "ETH", Decimals: 18}
	weth = domain.AssetDescriptor{
		Name:     "Wrapped ETH",
		Symbol:   "WETH",
		Contract: "0xfFf9976782d46CC05630D1f6eB9Bc98210fA7378",
		Decimals: 18,
	}
)

type fakeWallet struct {
	state domain.ConnectionState
	err   error
	sent  []domain.TxRequest
}

func (w *fakeWallet) State() domain.ConnectionState { return w.state }

func (w *fakeWallet) SendTransaction(ctx context.Context, tx domain.TxRequest) (domain.TxHandle, error) {
	w.sent = append(w.sent, tx)
	if w.err != nil {
		return "", w.err
	}
	return "0xhash", nil
}

func connectedWallet() *fakeWallet {
	return &fakeWallet{state: domain.ConnectionState{Status: domain.ConnConnected, Address: sender}}
}

type fakeConfirmer struct {
	receipt domain.Receipt
	err     error
}

func (c *fakeConfirmer) WaitForConfirmation(ctx context.Context, h domain.TxHandle) (domain.Receipt, error) {
	return c.receipt, c.err
}

type recorder struct {
	items []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) { r.items = append(r.items, n) }

func (r *recorder) count(level notify.Level) int {
	n := 0
	for _, it := range r.items {
		if it.Level == level {
			n++
		}
	}
	return n
}

func TestSubmit_Token(t *testing.T) {
	w := connectedWallet()
	o := NewOrchestrator(w, &fakeConfirmer{}, nil, 11155111)

	h, err := o.Submit(context.Background(), domain.TransferRequest{Recipient: recipient, Amount: "1.5", Asset: weth})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != "0xhash" {
		t.Errorf("unexpected handle %s", h)
	}

	tx := w.sent[0]
	if tx.To != weth.Contract {
		t.Errorf("token transfer must target the contract, got %s", tx.To)
	}
	if tx.Value.Sign() != 0 {
		t.Errorf("token transfer must carry zero value, got %s", tx.Value)
	}
	if len(tx.Data) != 68 {
		t.Fatalf("expected 68 bytes of call data, got %d", len(tx.Data))
	}
	if !bytes.Equal(tx.Data[:4], []byte{0xa9, 0x05, 0x9c, 0xbb}) {
		t.Errorf("unexpected selector %x", tx.Data[:4])
	}
	amount := new(big.Int).SetBytes(tx.Data[36:68])
	if amount.String() != "1500000000000000000" {
		t.Errorf("unexpected encoded amount %s", amount)
	}
	if tx.From != sender || tx.ChainID != 11155111 {
		t.Errorf("unexpected sender/chain: %s %d", tx.From, tx.ChainID)
	}
}

func TestSubmit_TokenCallDataForEveryDecimals(t *testing.T) {
	for _, dec := range []uint8{0, 6, 8, 18} {
		w := connectedWallet()
		o := NewOrchestrator(w, &fakeConfirmer{}, nil, 1)
		asset := domain.AssetDescriptor{Symbol: "TKN", Contract: weth.Contract, Decimals: dec}

		if _, err := o.Submit(context.Background(), domain.TransferRequest{Recipient: recipient, Amount: "7", Asset: asset}); err != nil {
			t.Fatalf("decimals %d: unexpected error: %v", dec, err)
		}
		data := w.sent[0].Data
		if len(data) != evm.TransferCallDataLen || !bytes.Equal(data[:4], evm.SelectorTransfer[:]) {
			t.Errorf("decimals %d: bad call data %x", dec, data)
		}
	}
}

func TestSubmit_Native(t *testing.T) {
	w := connectedWallet()
	o := NewOrchestrator(w, &fakeConfirmer{}, nil, 11155111)

	if _, err := o.Submit(context.Background(), domain.TransferRequest{Recipient: recipient, Amount: "1.5", Asset: eth}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx := w.sent[0]
	if tx.To != recipient {
		t.Errorf("native transfer must target the recipient, got %s", tx.To)
	}
	if len(tx.Data) != 0 {
		t.Errorf("native transfer must have empty call data, got %x", tx.Data)
	}
	if tx.Value.String() != "1500000000000000000" {
		t.Errorf("unexpected value %s", tx.Value)
	}
}

func TestSubmit_NoOpWhenNotReady(t *testing.T) {
	tests := []struct {
		name   string
		wallet *fakeWallet
		req    domain.TransferRequest
	}{
		{"empty recipient", connectedWallet(), domain.TransferRequest{Amount: "1", Asset: eth}},
		{"empty amount", connectedWallet(), domain.TransferRequest{Recipient: recipient, Asset: eth}},
		{"disconnected", &fakeWallet{state: domain.ConnectionState{Status: domain.ConnDisconnected}},
			domain.TransferRequest{Recipient: recipient, Amount: "1", Asset: eth}},
		{"connecting", &fakeWallet{state: domain.ConnectionState{Status: domain.ConnConnecting}},
			domain.TransferRequest{Recipient: recipient, Amount: "1", Asset: eth}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			o := NewOrchestrator(tt.wallet, &fakeConfirmer{}, rec, 1)
			if _, err := o.Submit(context.Background(), tt.req); !errors.Is(err, ErrNotReady) {
				t.Fatalf("expected ErrNotReady, got %v", err)
			}
			if len(tt.wallet.sent) != 0 {
				t.Error("wallet must not be called")
			}
			if len(rec.items) != 0 {
				t.Errorf("expected no notifications, got %+v", rec.items)
			}
		})
	}
}

func TestSubmit_InvalidInput(t *testing.T) {
	tests := []struct {
		req  domain.TransferRequest
		want error
	}{
		{domain.TransferRequest{Recipient: recipient, Amount: "lots", Asset: eth}, ErrInvalidAmount},
		{domain.TransferRequest{Recipient: recipient, Amount: "1e3", Asset: eth}, ErrInvalidAmount},
		{domain.TransferRequest{Recipient: recipient, Amount: "1e900000000", Asset: weth}, ErrInvalidAmount},
		{domain.TransferRequest{Recipient: recipient, Amount: "0.0000001", Asset: domain.AssetDescriptor{Symbol: "USDC", Contract: weth.Contract, Decimals: 6}}, ErrInvalidAmount},
		{domain.TransferRequest{Recipient: "vitalik.eth", Amount: "1", Asset: eth}, ErrInvalidRecipient},
	}
	for _, tt := range tests {
		w := connectedWallet()
		rec := &recorder{}
		o := NewOrchestrator(w, &fakeConfirmer{}, rec, 1)
		if _, err := o.Submit(context.Background(), tt.req); !errors.Is(err, tt.want) {
			t.Errorf("expected %v, got %v", tt.want, err)
		}
		if len(w.sent) != 0 || len(rec.items) != 0 {
			t.Errorf("invalid input must not submit or notify: sent=%d notes=%d", len(w.sent), len(rec.items))
		}
	}
}

func TestSubmit_WalletErrorNotifiesOnce(t *testing.T) {
	w := connectedWallet()
	w.err = errors.New("User rejected the request.")
	rec := &recorder{}
	o := NewOrchestrator(w, &fakeConfirmer{}, rec, 1)

	if _, err := o.Submit(context.Background(), domain.TransferRequest{Recipient: recipient, Amount: "1", Asset: eth}); err == nil {
		t.Fatal("expected error")
	}
	if rec.count(notify.LevelError) != 1 {
		t.Fatalf("expected exactly one error notification, got %+v", rec.items)
	}
	for _, n := range rec.items {
		if n.Level == notify.LevelError && n.Description != "User rejected the request." {
			t.Errorf("error notification must carry the message, got %q", n.Description)
		}
	}
	if rec.count(notify.LevelInfo) != 1 {
		t.Errorf("expected the initiated notification, got %+v", rec.items)
	}
}

func TestTrack(t *testing.T) {
	rec := &recorder{}
	o := NewOrchestrator(connectedWallet(), &fakeConfirmer{receipt: domain.Receipt{Handle: "0xhash", Status: domain.TxStatusSuccess}}, rec, 1)

	if _, err := o.Track(context.Background(), eth, "0xhash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.items) != 1 || rec.items[0].Level != notify.LevelSuccess || rec.items[0].Description != "Hash: 0xhash" {
		t.Errorf("unexpected notifications: %+v", rec.items)
	}
}

func TestTrack_FailureNotifiesOnce(t *testing.T) {
	rec := &recorder{}
	o := NewOrchestrator(connectedWallet(), &fakeConfirmer{err: evm.ErrReverted}, rec, 1)

	if _, err := o.Track(context.Background(), eth, "0xhash"); !errors.Is(err, evm.ErrReverted) {
		t.Fatalf("expected ErrReverted, got %v", err)
	}
	if len(rec.items) != 1 || rec.items[0].Level != notify.LevelError || rec.items[0].Title != TitleConfirmFailed {
		t.Errorf("expected one confirmation failure notification, got %+v", rec.items)
	}
	if rec.items[0].Description != evm.ErrReverted.Error() {
		t.Errorf("unexpected message %q", rec.items[0].Description)
	}
}
