package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/tokensend/internal/control"
	"github.com/vietddude/tokensend/internal/core/domain"
)

var (
	sendTo        string
	sendAmount    string
	sendAsset     string
	sendConnector string
	sendNoWait    bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a single transfer through the wallet and wait for confirmation",
	Run:   runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient address")
	sendCmd.Flags().StringVar(&sendAmount, "amount", "", "amount in whole units, e.g. 1.5")
	sendCmd.Flags().StringVar(&sendAsset, "asset", "", "asset symbol (default: first configured asset)")
	sendCmd.Flags().StringVar(&sendConnector, "connector", "", "wallet connector: injected or node (default: config)")
	sendCmd.Flags().BoolVar(&sendNoWait, "no-wait", false, "return after submission without waiting for confirmation")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	setupHeadlessLogging(cfg)

	app, err := control.New(cfg, control.Options{MetricsPort: cfg.Server.MetricsPort})
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sendOnce(ctx, app, cfg.Wallet.DefaultConnector)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if stopErr := app.Stop(shutdownCtx); stopErr != nil {
		slog.Error("Error during shutdown", "error", stopErr)
	}
	if err != nil {
		slog.Error("Send failed", "error", err)
		os.Exit(1)
	}
}

func sendOnce(ctx context.Context, app *control.App, defaultConnector string) error {
	asset := app.Registry.First()
	if sendAsset != "" {
		a, ok := app.Registry.Lookup(sendAsset)
		if !ok {
			return fmt.Errorf("unknown asset %q", sendAsset)
		}
		asset = a
	}

	kind, err := app.Connector(sendConnector, defaultConnector)
	if err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}

	state, err := app.Session.Connect(ctx, kind)
	if err != nil {
		return fmt.Errorf("connect %s wallet: %w", kind, err)
	}
	slog.Info("Wallet connected", "address", state.Address, "network", app.Network.Name)

	req := domain.TransferRequest{Recipient: sendTo, Amount: sendAmount, Asset: asset}
	handle, err := app.Transfers.Submit(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Submitted %s %s to %s\n", sendAmount, asset.Symbol, sendTo)
	fmt.Printf("Transaction: %s\n", handle)
	if url := app.Network.TxURL(handle); url != "" {
		fmt.Printf("Explorer:    %s\n", url)
	}
	if sendNoWait {
		return nil
	}

	receipt, err := app.Transfers.Track(ctx, asset, handle)
	if err != nil {
		return err
	}
	fmt.Printf("Confirmed in block %d (gas used %d)\n", receipt.BlockNumber, receipt.GasUsed)
	return nil
}
