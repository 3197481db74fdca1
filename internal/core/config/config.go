package config

import (
	"time"

	"github.com/vietddude/tokensend/internal/core/domain"
	redisclient "github.com/vietddude/tokensend/internal/infra/redis"
)

// DefaultRPCURL is used when no RPC endpoint is configured.
const DefaultRPCURL = "https://ethereum-sepolia-rpc.publicnode.com"

// DefaultInjectedURL is the local wallet endpoint exposed by desktop wallets such as Frame.
const DefaultInjectedURL = "http://127.0.0.1:1248"

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Network NetworkConfig            `yaml:"network"`
	Wallet  WalletConfig             `yaml:"wallet"`
	Assets  []domain.AssetDescriptor `yaml:"assets"`
	Redis   redisclient.Config       `yaml:"redis"`
	Logging LoggingConfig            `yaml:"logging"`
	Server  ServerConfig             `yaml:"server"`
}

// NetworkConfig holds chain and RPC settings.
type NetworkConfig struct {
	Name           string        `yaml:"name"`
	ChainID        uint64        `yaml:"chain_id"`
	RPCURLs        []string      `yaml:"rpc_urls"` // tried in order; empty entries are skipped
	ExplorerURL    string        `yaml:"explorer_url"`
	Confirmations  uint64        `yaml:"confirmations"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	ConfirmTimeout time.Duration `yaml:"confirm_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// WalletConfig holds connector settings.
type WalletConfig struct {
	InjectedURL      string `yaml:"injected_url"`
	DefaultConnector string `yaml:"default_connector"` // injected, node
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // TUI mode log destination
}

// ServerConfig holds the metrics/health HTTP server settings.
type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"` // 0 = disabled
}

// Domain returns the network description used by the UI.
func (n NetworkConfig) Domain() domain.Network {
	return domain.Network{
		Name:        n.Name,
		ChainID:     n.ChainID,
		ExplorerURL: n.ExplorerURL,
	}
}
