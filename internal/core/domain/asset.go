package domain

import "strings"

// AssetDescriptor describes a transferable asset.
// A native asset has an empty Contract; a token asset carries its contract address.
type AssetDescriptor struct {
	Name     string `yaml:"name"     json:"name"`
	Symbol   string `yaml:"symbol"   json:"symbol"`
	Contract string `yaml:"contract" json:"contract,omitempty"`
	Decimals uint8  `yaml:"decimals" json:"decimals"`
}

// IsNative reports whether the asset is the chain's base currency.
func (a AssetDescriptor) IsNative() bool {
	return strings.TrimSpace(a.Contract) == ""
}

// Label renders "Name (SYMBOL)" for selectors.
func (a AssetDescriptor) Label() string {
	return a.Name + " (" + a.Symbol + ")"
}
