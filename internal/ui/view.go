package ui

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/notify"
	"github.com/vietddude/tokensend/internal/transfer"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		titleStyle.Render("Token Send"),
		m.renderConnection(),
		m.renderBalance(),
		m.renderForm(),
	}
	if tx := m.renderLastTx(); tx != "" {
		sections = append(sections, tx)
	}
	if m.status != "" {
		style := subtleStyle
		if m.statusErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, m.renderFooter())

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width > 0 {
		return panelStyle.MaxWidth(m.width).Render(body)
	}
	return panelStyle.Render(body)
}

func (m Model) renderConnection() string {
	var line string
	switch m.conn.Status {
	case domain.ConnConnected:
		line = successStyle.Render("● ") + valueStyle.Render(m.conn.Address) +
			subtleStyle.Render("  [d] disconnect")
	case domain.ConnConnecting:
		var parts []string
		for i, c := range m.session.Connectors() {
			label := fmt.Sprintf("[%d] %s", i+1, c.Name())
			if c.Kind() == m.connecting {
				label = pendingStyle.Render("Connecting...")
			} else {
				label = subtleStyle.Render(label)
			}
			parts = append(parts, label)
		}
		line = strings.Join(parts, "  ")
	default:
		var parts []string
		for i, c := range m.session.Connectors() {
			parts = append(parts, valueStyle.Render(fmt.Sprintf("[%d] %s", i+1, c.Name())))
		}
		line = subtleStyle.Render("Connect: ") + strings.Join(parts, "  ")
	}
	network := labelStyle.Render("Network") + valueStyle.Render(m.network.Name)
	return lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render("Wallet")+line, network)
}

func (m Model) renderBalance() string {
	asset := m.Asset()
	selector := labelStyle.Render("Asset") + valueStyle.Render(asset.Label()) +
		subtleStyle.Render(fmt.Sprintf("  (%d/%d, ctrl+n/ctrl+p)", m.assetIdx+1, m.registry.Len()))

	bal := m.nativeBal
	if !asset.IsNative() {
		bal = m.tokenBal
	}
	var value string
	switch {
	case !m.conn.Connected():
		value = subtleStyle.Render("-")
	case bal == nil && m.loading:
		value = pendingStyle.Render("loading...")
	case bal == nil:
		value = subtleStyle.Render("-")
	default:
		value = valueStyle.Render(formatBalance(bal, asset))
	}
	return lipgloss.JoinVertical(lipgloss.Left, selector, labelStyle.Render("Balance")+value)
}

func formatBalance(v *big.Int, asset domain.AssetDescriptor) string {
	return transfer.FormatUnits(v, asset.Decimals) + " " + asset.Symbol
}

func (m Model) renderForm() string {
	recipient := inputStyle
	if m.focus == focusRecipient {
		recipient = focusedInputStyle
	}
	amount := inputStyle
	if m.focus == focusAmount {
		amount = focusedInputStyle
	}

	label := "Send"
	switch m.phase {
	case domain.PhaseSubmitting:
		label = "Sending..."
	case domain.PhaseConfirming:
		label = "Confirming..."
	}
	req := domain.TransferRequest{
		Recipient: m.recipient.Value(),
		Amount:    m.amount.Value(),
		Asset:     m.Asset(),
	}
	button := buttonStyle.Render(label)
	if m.phase.InFlight() || !m.transfers.Ready(req) {
		button = disabledButtonStyle.Render(label)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		subtleStyle.Render("Recipient"),
		recipient.Render(m.recipient.View()),
		subtleStyle.Render("Amount ("+m.Asset().Symbol+")"),
		amount.Render(m.amount.View()),
		button+subtleStyle.Render("  enter"),
	)
}

func (m Model) renderLastTx() string {
	if m.lastHandle == "" {
		return ""
	}
	line := labelStyle.Render("Last tx") + valueStyle.Render(m.lastHandle.Short())
	if url := m.network.TxURL(m.lastHandle); url != "" {
		line += "  " + linkStyle.Render(url)
	}
	switch m.phase {
	case domain.PhaseConfirmed:
		line += "  " + successStyle.Render("confirmed")
	case domain.PhaseFailed:
		line += "  " + errorStyle.Render("failed")
	case domain.PhaseConfirming:
		line += "  " + pendingStyle.Render("pending")
	}
	return line
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, n := range m.toasts {
		style := valueStyle
		switch n.Level {
		case notify.LevelSuccess:
			style = successStyle
		case notify.LevelError:
			style = errorStyle
		}
		text := n.Title
		if n.Description != "" {
			text += ": " + n.Description
		}
		lines = append(lines, style.Render("▸ "+text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderFooter() string {
	return subtleStyle.Render(fmt.Sprintf("Ensure you're on %s  ·  tab focus  ctrl+r refresh  esc quit", m.network.Name))
}
