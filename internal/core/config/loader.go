package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
// A missing file is not an error when optional is set; defaults are returned instead.
func Load(path string, optional bool) (*AppConfig, error) {
	var cfg AppConfig

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	n := &cfg.Network
	if n.Name == "" {
		n.Name = "Sepolia"
	}
	if n.ChainID == 0 {
		n.ChainID = 11155111
	}
	if n.ExplorerURL == "" {
		n.ExplorerURL = "https://sepolia.etherscan.io"
	}
	n.ExplorerURL = strings.TrimRight(n.ExplorerURL, "/")
	if n.Confirmations == 0 {
		n.Confirmations = 1
	}
	if n.PollInterval == 0 {
		n.PollInterval = 4 * time.Second
	}
	if n.ConfirmTimeout == 0 {
		n.ConfirmTimeout = 10 * time.Minute
	}
	if n.RequestTimeout == 0 {
		n.RequestTimeout = 30 * time.Second
	}

	// RPC_URL from the environment goes first, the public endpoint last.
	urls := make([]string, 0, len(n.RPCURLs)+2)
	seen := make(map[string]struct{})
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	add(os.Getenv("RPC_URL"))
	for _, u := range n.RPCURLs {
		add(u)
	}
	add(DefaultRPCURL)
	n.RPCURLs = urls

	if cfg.Wallet.InjectedURL == "" {
		cfg.Wallet.InjectedURL = os.Getenv("WALLET_URL")
	}
	if cfg.Wallet.InjectedURL == "" {
		cfg.Wallet.InjectedURL = DefaultInjectedURL
	}
	if cfg.Wallet.DefaultConnector == "" {
		cfg.Wallet.DefaultConnector = "injected"
	}

	if cfg.Redis.URL == "" {
		cfg.Redis.URL = os.Getenv("REDIS_URL")
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = "tokensend:notifications"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
