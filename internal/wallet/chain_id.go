package wallet

import (
	"fmt"
	"strconv"
	"strings"
)

func parseChainID(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty chain id")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}
