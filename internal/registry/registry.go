// Package registry holds the static table of transferable assets.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vietddude/tokensend/internal/core/domain"
)

// maxDecimals keeps 10^decimals within uint256.
const maxDecimals = 77

var ErrEmpty = errors.New("registry has no assets")

// Default is the Sepolia asset table.
var Default = []domain.AssetDescriptor{
	{Name: "Sepolia ETH", Symbol: "ETH", Decimals: 18},
	{
		Name:     "Wrapped ETH",
		Symbol:   "WETH",
		Contract: "0xfFf9976782d46CC05630D1f6eB9Bc98210fA7378",
		Decimals: 18,
	},
}

// Registry is a read-only, ordered list of assets.
type Registry struct {
	assets []domain.AssetDescriptor
	index  map[string]int
}

// New validates the descriptors and builds a registry.
func New(assets []domain.AssetDescriptor) (*Registry, error) {
	if len(assets) == 0 {
		return nil, ErrEmpty
	}

	r := &Registry{
		assets: make([]domain.AssetDescriptor, 0, len(assets)),
		index:  make(map[string]int, len(assets)),
	}
	for i, a := range assets {
		sym := strings.ToUpper(strings.TrimSpace(a.Symbol))
		if sym == "" {
			return nil, fmt.Errorf("asset %d: empty symbol", i)
		}
		if _, dup := r.index[sym]; dup {
			return nil, fmt.Errorf("asset %d: duplicate symbol %s", i, a.Symbol)
		}
		if !a.IsNative() && !domain.IsHexAddress(a.Contract) {
			return nil, fmt.Errorf("asset %s: invalid contract address %q", a.Symbol, a.Contract)
		}
		if a.Decimals > maxDecimals {
			return nil, fmt.Errorf("asset %s: decimals %d out of range", a.Symbol, a.Decimals)
		}
		if a.Name == "" {
			a.Name = a.Symbol
		}
		r.index[sym] = len(r.assets)
		r.assets = append(r.assets, a)
	}
	return r, nil
}

// MustDefault returns the built-in Sepolia registry.
func MustDefault() *Registry {
	r, err := New(Default)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds an asset by symbol, case-insensitively.
func (r *Registry) Lookup(symbol string) (domain.AssetDescriptor, bool) {
	i, ok := r.index[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return domain.AssetDescriptor{}, false
	}
	return r.assets[i], true
}

// Index returns the position of symbol in All, or -1.
func (r *Registry) Index(symbol string) int {
	i, ok := r.index[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return -1
	}
	return i
}

// All returns a copy of the assets in registry order.
func (r *Registry) All() []domain.AssetDescriptor {
	out := make([]domain.AssetDescriptor, len(r.assets))
	copy(out, r.assets)
	return out
}

// At returns the asset at position i.
func (r *Registry) At(i int) domain.AssetDescriptor {
	return r.assets[i]
}

// Len returns the number of assets.
func (r *Registry) Len() int { return len(r.assets) }

// First is the asset selected at startup.
func (r *Registry) First() domain.AssetDescriptor {
	return r.assets[0]
}
