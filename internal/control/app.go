// Package control assembles the application from configuration.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/tokensend/internal/core/config"
	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/health"
	"github.com/vietddude/tokensend/internal/infra/chain/evm"
	redisclient "github.com/vietddude/tokensend/internal/infra/redis"
	"github.com/vietddude/tokensend/internal/infra/rpc"
	"github.com/vietddude/tokensend/internal/notify"
	"github.com/vietddude/tokensend/internal/registry"
	"github.com/vietddude/tokensend/internal/transfer"
	"github.com/vietddude/tokensend/internal/wallet"
)

// walletRequestTimeout bounds a single wallet request, including the time
// the user spends approving it.
const walletRequestTimeout = 5 * time.Minute

// Options selects the optional parts of the app.
type Options struct {
	// UINotifications buffers notifications for the terminal UI.
	UINotifications bool
	MetricsPort     int
}

// App holds every long-lived component.
type App struct {
	Network   domain.Network
	Registry  *registry.Registry
	Chain     *rpc.Client
	Reader    *evm.Reader
	Session   *wallet.Session
	Transfers *transfer.Orchestrator
	Notes     *notify.ChanSink

	walletClient *rpc.Client
	redisClient  *redisclient.Client
	redisSink    *notify.RedisSink
	healthMon    *health.Monitor
	healthServer *health.Server
	log          *slog.Logger
}

// New creates an App with all dependencies initialized.
func New(cfg *config.AppConfig, opts Options) (*App, error) {
	log := slog.Default().With("component", "app")

	reg := registry.MustDefault()
	if len(cfg.Assets) > 0 {
		var err error
		reg, err = registry.New(cfg.Assets)
		if err != nil {
			return nil, fmt.Errorf("asset registry: %w", err)
		}
	}

	// 1. Notification sinks
	sinks := notify.Multi{notify.LogSink{Logger: slog.Default()}}
	app := &App{
		Network:  cfg.Network.Domain(),
		Registry: reg,
		log:      log,
	}
	if opts.UINotifications {
		app.Notes = notify.NewChanSink(32)
		sinks = append(sinks, app.Notes)
	}
	if cfg.Redis.Enabled() {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, notifications stay local", "error", err)
		} else {
			app.redisClient = client
			app.redisSink = notify.NewRedisSink(client, cfg.Redis.Channel)
			sinks = append(sinks, app.redisSink)
		}
	}

	// 2. Chain access
	app.Chain = rpc.NewClientFromURLs(cfg.Network.RPCURLs, cfg.Network.RequestTimeout)
	app.Reader = evm.NewReader(app.Chain, evm.Config{
		Confirmations:  cfg.Network.Confirmations,
		PollInterval:   cfg.Network.PollInterval,
		ConfirmTimeout: cfg.Network.ConfirmTimeout,
	})

	// 3. Wallet
	app.walletClient = rpc.NewClientFromURLs([]string{cfg.Wallet.InjectedURL}, walletRequestTimeout)
	connectors := []*wallet.Connector{
		wallet.NewConnector(wallet.ConnectorInjected, app.walletClient),
		wallet.NewConnector(wallet.ConnectorNode, app.Chain),
	}
	app.Session = wallet.NewSession(cfg.Network.ChainID, sinks, connectors...)

	// 4. Transfers
	app.Transfers = transfer.NewOrchestrator(app.Session, app.Reader, sinks, cfg.Network.ChainID)

	// 5. Health
	if opts.MetricsPort > 0 {
		app.healthMon = health.NewMonitor(app.Network, app.Reader, app.Chain.Providers())
		app.healthServer = health.NewServer(app.healthMon, opts.MetricsPort)
	}

	log.Debug("App initialized",
		"network", app.Network.Name,
		"chain_id", app.Network.ChainID,
		"rpc_endpoints", len(cfg.Network.RPCURLs),
		"assets", reg.Len(),
	)
	return app, nil
}

// Start starts background services.
func (a *App) Start(ctx context.Context) error {
	if a.healthServer == nil {
		return nil
	}
	go func() {
		if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Health server failed", "error", err)
		}
	}()
	a.log.Info("Health server started")
	return nil
}

// Stop releases every component. The wallet connection is dropped first.
func (a *App) Stop(ctx context.Context) error {
	a.Session.Disconnect()

	var errs []error
	if a.healthServer != nil {
		if err := a.healthServer.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("health server: %w", err))
		}
	}
	if a.redisSink != nil {
		a.redisSink.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if err := a.walletClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("wallet client: %w", err))
	}
	if err := a.Chain.Close(); err != nil {
		errs = append(errs, fmt.Errorf("rpc client: %w", err))
	}
	return errors.Join(errs...)
}

// Connector resolves a connector kind string, falling back to the configured default.
func (a *App) Connector(kind string, fallback string) (wallet.ConnectorKind, error) {
	if kind == "" {
		kind = fallback
	}
	k, err := wallet.ParseConnectorKind(kind)
	if err != nil {
		return "", err
	}
	if _, ok := a.Session.Connector(k); !ok {
		return "", fmt.Errorf("%w: %s", wallet.ErrUnknownConnector, k)
	}
	return k, nil
}
