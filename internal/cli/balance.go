package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vietddude/tokensend/internal/control"
	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/transfer"
	"github.com/vietddude/tokensend/internal/ui"
)

var (
	balanceAddress string
	balanceAsset   string
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show native and token balances of an address",
	Run:   runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "account address")
	balanceCmd.Flags().StringVar(&balanceAsset, "asset", "", "only this asset symbol")
	_ = balanceCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	setupHeadlessLogging(cfg)

	if !domain.IsHexAddress(balanceAddress) {
		slog.Error("Invalid address", "address", balanceAddress)
		os.Exit(1)
	}

	app, err := control.New(cfg, control.Options{})
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	assets := app.Registry.All()
	if balanceAsset != "" {
		a, ok := app.Registry.Lookup(balanceAsset)
		if !ok {
			slog.Error("Unknown asset", "asset", balanceAsset)
			os.Exit(1)
		}
		assets = []domain.AssetDescriptor{a}
	}

	balances, err := fetchBalances(context.Background(), app.Reader, balanceAddress, assets)
	printBalances(os.Stdout, assets, balances)
	if err != nil {
		slog.Error("Failed to fetch balances", "error", err)
		os.Exit(1)
	}
}

// fetchBalances queries every asset concurrently; results follow assets' order.
// A failed read leaves a nil entry and does not cancel the others.
func fetchBalances(ctx context.Context, b ui.Balances, owner string, assets []domain.AssetDescriptor) ([]*big.Int, error) {
	out := make([]*big.Int, len(assets))
	var g errgroup.Group
	g.SetLimit(4)
	for i, a := range assets {
		g.Go(func() error {
			var (
				v   *big.Int
				err error
			)
			if a.IsNative() {
				v, err = b.NativeBalance(ctx, owner)
			} else {
				v, err = b.TokenBalance(ctx, a.Contract, owner)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", a.Symbol, err)
			}
			out[i] = v
			return nil
		})
	}
	return out, g.Wait()
}

func printBalances(w io.Writer, assets []domain.AssetDescriptor, balances []*big.Int) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ASSET\tBALANCE\tRAW")
	for i, a := range assets {
		if balances[i] == nil {
			_, _ = fmt.Fprintf(tw, "%s\t?\t?\n", a.Symbol)
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Symbol, transfer.FormatUnits(balances[i], a.Decimals), balances[i])
	}
	_ = tw.Flush()
}
