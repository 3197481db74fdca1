package evm

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/vietddude/tokensend/internal/core/domain"
)

// Function selectors of the minimal ERC-20 ABI.
var (
	SelectorTransfer  = [4]byte{0xa9, 0x05, 0x9c, 0xbb} // transfer(address,uint256)
	SelectorBalanceOf = [4]byte{0x70, 0xa0, 0x82, 0x31} // balanceOf(address)
	SelectorDecimals  = [4]byte{0x31, 0x3c, 0xe5, 0x67} // decimals()
	SelectorSymbol    = [4]byte{0x95, 0xd8, 0x9b, 0x41} // symbol()
)

const wordSize = 32

// TransferCallDataLen is selector + address word + amount word.
const TransferCallDataLen = 4 + 2*wordSize

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrUint256Range   = errors.New("value out of uint256 range")
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// EncodeAddress left-pads a 20-byte address to a 32-byte word.
func EncodeAddress(addr string) ([wordSize]byte, error) {
	var word [wordSize]byte
	if !domain.IsHexAddress(addr) {
		return word, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	raw, err := hex.DecodeString(addr[2:])
	if err != nil {
		return word, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	copy(word[wordSize-len(raw):], raw)
	return word, nil
}

// EncodeUint256 left-pads v to a 32-byte word.
func EncodeUint256(v *big.Int) ([wordSize]byte, error) {
	var word [wordSize]byte
	if v == nil || v.Sign() < 0 || v.Cmp(maxUint256) > 0 {
		return word, ErrUint256Range
	}
	v.FillBytes(word[:])
	return word, nil
}

// EncodeTransfer builds the call data of transfer(recipient, amount).
func EncodeTransfer(recipient string, amount *big.Int) ([]byte, error) {
	to, err := EncodeAddress(recipient)
	if err != nil {
		return nil, err
	}
	value, err := EncodeUint256(amount)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, TransferCallDataLen)
	data = append(data, SelectorTransfer[:]...)
	data = append(data, to[:]...)
	data = append(data, value[:]...)
	return data, nil
}

// EncodeBalanceOf builds the call data of balanceOf(owner).
func EncodeBalanceOf(owner string) ([]byte, error) {
	word, err := EncodeAddress(owner)
	if err != nil {
		return nil, err
	}
	return append(SelectorBalanceOf[:], word[:]...), nil
}

// DecodeUint256 decodes the first word of an eth_call result.
func DecodeUint256(result string) (*big.Int, error) {
	b, err := decodeHexBytes(result)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errors.New("empty call result")
	}
	if len(b) > wordSize {
		b = b[:wordSize]
	}
	return new(big.Int).SetBytes(b), nil
}

// DecodeString decodes an ABI string return value.
// Legacy tokens returning bytes32 are accepted as well.
func DecodeString(result string) (string, error) {
	b, err := decodeHexBytes(result)
	if err != nil {
		return "", err
	}

	if len(b) == wordSize {
		s := string(bytes.TrimRight(b, "\x00"))
		if !utf8.ValidString(s) {
			return "", errors.New("bytes32 result is not valid utf-8")
		}
		return s, nil
	}

	if len(b) < 2*wordSize {
		return "", fmt.Errorf("string result too short: %d bytes", len(b))
	}
	offset := new(big.Int).SetBytes(b[:wordSize])
	if !offset.IsUint64() || offset.Uint64()+wordSize > uint64(len(b)) {
		return "", errors.New("string offset out of range")
	}
	start := offset.Uint64()
	length := new(big.Int).SetBytes(b[start : start+wordSize])
	if !length.IsUint64() || start+wordSize+length.Uint64() > uint64(len(b)) {
		return "", errors.New("string length out of range")
	}
	data := b[start+wordSize : start+wordSize+length.Uint64()]
	return strings.ToValidUTF8(string(data), ""), nil
}
