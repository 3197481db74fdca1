package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/tokensend/internal/control"
	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/infra/chain/evm"
)

var assetsVerify bool

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List configured assets",
	Run:   runAssets,
}

func init() {
	assetsCmd.Flags().BoolVar(&assetsVerify, "verify", false, "compare token symbol and decimals with the contracts")
	rootCmd.AddCommand(assetsCmd)
}

// TokenMetadata reads ERC-20 metadata for several contracts at once.
type TokenMetadata interface {
	TokenMetadata(ctx context.Context, contracts []string) ([]evm.TokenInfo, error)
}

type assetCheck struct {
	symbol   string
	decimals string
	ok       bool
}

func runAssets(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	setupHeadlessLogging(cfg)

	app, err := control.New(cfg, control.Options{})
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	assets := app.Registry.All()
	var checks []assetCheck
	if assetsVerify {
		checks, err = verifyAssets(context.Background(), app.Reader, assets)
		if err != nil {
			slog.Error("Failed to verify assets", "error", err)
			os.Exit(1)
		}
	}
	printAssets(os.Stdout, assets, checks)

	for _, c := range checks {
		if !c.ok {
			os.Exit(1)
		}
	}
}

func verifyAssets(ctx context.Context, meta TokenMetadata, assets []domain.AssetDescriptor) ([]assetCheck, error) {
	var contracts []string
	for _, a := range assets {
		if !a.IsNative() {
			contracts = append(contracts, a.Contract)
		}
	}
	infos, err := meta.TokenMetadata(ctx, contracts)
	if err != nil {
		return nil, err
	}

	checks := make([]assetCheck, len(assets))
	next := 0
	for i, a := range assets {
		if a.IsNative() {
			checks[i] = assetCheck{symbol: "-", decimals: "-", ok: true}
			continue
		}
		info := infos[next]
		next++

		c := assetCheck{symbol: "?", decimals: "?"}
		if info.SymbolErr == nil {
			c.symbol = info.Symbol
		} else {
			slog.Warn("Failed to read token symbol", "asset", a.Symbol, "error", info.SymbolErr)
		}
		if info.DecimalsErr == nil {
			c.decimals = strconv.Itoa(int(info.Decimals))
		} else {
			slog.Warn("Failed to read token decimals", "asset", a.Symbol, "error", info.DecimalsErr)
		}
		c.ok = info.SymbolErr == nil && info.DecimalsErr == nil &&
			strings.EqualFold(info.Symbol, a.Symbol) && info.Decimals == a.Decimals
		checks[i] = c
	}
	return checks, nil
}

func printAssets(w io.Writer, assets []domain.AssetDescriptor, checks []assetCheck) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	header := "SYMBOL\tNAME\tCONTRACT\tDECIMALS"
	if checks != nil {
		header += "\tONCHAIN SYMBOL\tONCHAIN DECIMALS\tOK"
	}
	_, _ = fmt.Fprintln(tw, header)

	for i, a := range assets {
		contract := a.Contract
		if a.IsNative() {
			contract = "(native)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d", a.Symbol, a.Name, contract, a.Decimals)
		if checks != nil {
			c := checks[i]
			_, _ = fmt.Fprintf(tw, "\t%s\t%s\t%t", c.symbol, c.decimals, c.ok)
		}
		_, _ = fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}
