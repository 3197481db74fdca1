package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/tokensend/internal/control"
	"github.com/vietddude/tokensend/internal/core/config"
	"github.com/vietddude/tokensend/internal/ui"
)

var (
	cfgPath     string
	isDebug     bool
	metricsPort int
)

var rootCmd = &cobra.Command{
	Use:   "tokensend",
	Short: "Send native currency or ERC-20 tokens on a testnet",
	Long: `tokensend connects to your wallet and sends ETH or an ERC-20 token on Sepolia.
Without a subcommand it starts the interactive terminal UI.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Run = runUI
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (optional)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&metricsPort, "metrics-port", 0, "serve /health and /metrics on this port (0 = config value)")
}

// loadConfig reads .env and the config file. Errors are fatal.
func loadConfig() *config.AppConfig {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath, !rootCmd.PersistentFlags().Changed("config"))
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if metricsPort > 0 {
		cfg.Server.MetricsPort = metricsPort
	}
	return cfg
}

func logLevel(cfg *config.AppConfig) slog.Level {
	if isDebug {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// setupHeadlessLogging logs to stderr the same way the services do.
func setupHeadlessLogging(cfg *config.AppConfig) {
	stylelog.InitDefault(&tint.Options{
		Level:      logLevel(cfg),
		TimeFormat: time.RFC3339,
	})
}

// setupUILogging keeps the terminal for the UI: logs go to the configured
// file without colour, or nowhere.
func setupUILogging(cfg *config.AppConfig) (io.Closer, error) {
	if cfg.Logging.File == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(tint.NewHandler(f, &tint.Options{
		Level:      logLevel(cfg),
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})))
	return f, nil
}

func runUI(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	logFile, err := setupUILogging(cfg)
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	app, err := control.New(cfg, control.Options{
		UINotifications: true,
		MetricsPort:     cfg.Server.MetricsPort,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to start:", err)
		os.Exit(1)
	}
	slog.Info("UI started", "config", cfgPath, "network", app.Network.Name)

	model := ui.New(ctx, ui.Config{
		Session:       app.Session,
		Balances:      app.Reader,
		Transfers:     app.Transfers,
		Registry:      app.Registry,
		Network:       app.Network,
		Notifications: app.Notes.C(),
	})
	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	// Pending commands stop before their sinks close.
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "UI error:", runErr)
		os.Exit(1)
	}
}
