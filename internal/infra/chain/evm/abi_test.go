package evm

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestEncodeTransfer(t *testing.T) {
	amount, _ := new(big.Int).SetString("1500000000000000000", 10)
	data, err := EncodeTransfer("0x000000000000000000000000000000000000dEaD", amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data) != TransferCallDataLen {
		t.Fatalf("expected %d bytes, got %d", TransferCallDataLen, len(data))
	}
	if !bytes.Equal(data[:4], SelectorTransfer[:]) {
		t.Errorf("unexpected selector: %x", data[:4])
	}

	want := "a9059cbb" +
		"000000000000000000000000000000000000000000000000000000000000dead" +
		"00000000000000000000000000000000000000000000000014d1120d7b160000"
	if got := hex.EncodeToString(data); got != want {
		t.Errorf("call data mismatch\n got %s\nwant %s", got, want)
	}
}

func TestEncodeTransfer_Errors(t *testing.T) {
	if _, err := EncodeTransfer("0x1234", big.NewInt(1)); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := EncodeTransfer("0x000000000000000000000000000000000000dEaD", tooBig); !errors.Is(err, ErrUint256Range) {
		t.Errorf("expected ErrUint256Range, got %v", err)
	}
	if _, err := EncodeTransfer("0x000000000000000000000000000000000000dEaD", big.NewInt(-1)); !errors.Is(err, ErrUint256Range) {
		t.Errorf("expected ErrUint256Range for negative, got %v", err)
	}
}

func TestEncodeBalanceOf(t *testing.T) {
	data, err := EncodeBalanceOf("0xfFf9976782d46CC05630D1f6eB9Bc98210fA7378")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "70a08231000000000000000000000000fff9976782d46cc05630d1f6eb9bc98210fa7378"
	if got := hex.EncodeToString(data); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecodeUint256(t *testing.T) {
	n, err := DecodeUint256("0x0000000000000000000000000000000000000000000000000de0b6b3a7640000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.String() != "1000000000000000000" {
		t.Errorf("unexpected value %s", n)
	}
	if _, err := DecodeUint256("0x"); err == nil {
		t.Error("expected error for empty result")
	}
}

func TestDecodeString(t *testing.T) {
	// symbol() -> "WETH"
	abiString := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"5745544800000000000000000000000000000000000000000000000000000000"
	s, err := DecodeString(abiString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "WETH" {
		t.Errorf("expected WETH, got %q", s)
	}

	// bytes32 legacy tokens
	bytes32 := "0x4d4b520000000000000000000000000000000000000000000000000000000000"
	s, err = DecodeString(bytes32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "MKR" {
		t.Errorf("expected MKR, got %q", s)
	}

	if _, err := DecodeString("0x" + strings.Repeat("00", 40)); err == nil {
		t.Error("expected error for truncated string")
	}
}

func TestEncodeQuantity(t *testing.T) {
	if got := EncodeQuantity(nil); got != "0x0" {
		t.Errorf("nil: %s", got)
	}
	if got := EncodeQuantity(big.NewInt(255)); got != "0xff" {
		t.Errorf("255: %s", got)
	}
}
