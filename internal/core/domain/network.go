package domain

import "fmt"

// Network describes the chain the app transfers on.
type Network struct {
	Name        string
	ChainID     uint64
	ExplorerURL string
}

// TxURL returns the block explorer link for a transaction handle.
func (n Network) TxURL(h TxHandle) string {
	if n.ExplorerURL == "" || h == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", n.ExplorerURL, h)
}
