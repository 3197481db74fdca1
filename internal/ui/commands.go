package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/notify"
	"github.com/vietddude/tokensend/internal/wallet"
)

func connectCmd(ctx context.Context, s Session, kind wallet.ConnectorKind) tea.Cmd {
	return func() tea.Msg {
		state, err := s.Connect(ctx, kind)
		return connectedMsg{state: state, err: err}
	}
}

func disconnectCmd(s Session) tea.Cmd {
	return func() tea.Msg {
		s.Disconnect()
		return disconnectedMsg{}
	}
}

// refreshCmd queries the native balance and, when the asset is a token,
// the token balance. The two reads run concurrently and a failure in one
// does not cancel the other.
func refreshCmd(ctx context.Context, b Balances, owner string, asset domain.AssetDescriptor, native bool) tea.Cmd {
	wantToken := !asset.IsNative()
	if !native && !wantToken {
		return nil
	}
	return func() tea.Msg {
		msg := balancesMsg{owner: owner, symbol: asset.Symbol}
		var g errgroup.Group
		if native {
			g.Go(func() error {
				v, err := b.NativeBalance(ctx, owner)
				if err != nil {
					return fmt.Errorf("native balance: %w", err)
				}
				msg.native = v
				return nil
			})
		}
		if wantToken {
			g.Go(func() error {
				v, err := b.TokenBalance(ctx, asset.Contract, owner)
				if err != nil {
					return fmt.Errorf("%s balance: %w", asset.Symbol, err)
				}
				msg.token = v
				return nil
			})
		}
		msg.err = g.Wait()
		return msg
	}
}

func submitCmd(ctx context.Context, t Transfers, req domain.TransferRequest) tea.Cmd {
	return func() tea.Msg {
		h, err := t.Submit(ctx, req)
		return submittedMsg{asset: req.Asset, handle: h, err: err}
	}
}

func trackCmd(ctx context.Context, t Transfers, asset domain.AssetDescriptor, h domain.TxHandle) tea.Cmd {
	return func() tea.Msg {
		r, err := t.Track(ctx, asset, h)
		return confirmedMsg{handle: h, receipt: r, err: err}
	}
}

func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg{note: n}
	}
}
