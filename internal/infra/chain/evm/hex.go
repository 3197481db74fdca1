package evm

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

func parseHexToBigInt(hexStr string) (*big.Int, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(hexStr, "0x"), "0X")
	if s == "" {
		return new(big.Int), nil
	}
	n := new(big.Int)
	if _, ok := n.SetString(s, 16); !ok {
		return nil, fmt.Errorf("invalid hex: %s", hexStr)
	}
	return n, nil
}

func parseHexString(hexStr string) (uint64, error) {
	n, err := parseHexToBigInt(hexStr)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("hex overflows uint64: %s", hexStr)
	}
	return n.Uint64(), nil
}

func decodeHexBytes(hexStr string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(hexStr, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return b, nil
}

// EncodeQuantity renders n as a JSON-RPC quantity (0x-prefixed, no leading zeros).
func EncodeQuantity(n *big.Int) string {
	if n == nil || n.Sign() == 0 {
		return "0x0"
	}
	return "0x" + n.Text(16)
}

// EncodeData renders b as JSON-RPC data (0x-prefixed, even length).
func EncodeData(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func getString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
