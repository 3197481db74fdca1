// Package ui is the terminal front end: one Bubble Tea model owns all view
// state and turns key presses into wallet, chain and transfer commands.
package ui

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/notify"
	"github.com/vietddude/tokensend/internal/registry"
	"github.com/vietddude/tokensend/internal/transfer"
	"github.com/vietddude/tokensend/internal/wallet"
)

const maxToasts = 3

type focusArea int

const (
	focusNone focusArea = iota
	focusRecipient
	focusAmount
	focusCount
)

// Config bundles the model's collaborators.
type Config struct {
	Session       Session
	Balances      Balances
	Transfers     Transfers
	Registry      *registry.Registry
	Network       domain.Network
	Notifications <-chan notify.Notification
}

// Model is the single controller of the terminal UI.
type Model struct {
	ctx       context.Context
	session   Session
	balances  Balances
	transfers Transfers
	registry  *registry.Registry
	network   domain.Network
	notes     <-chan notify.Notification

	conn       domain.ConnectionState
	connecting wallet.ConnectorKind
	assetIdx   int
	recipient  textinput.Model
	amount     textinput.Model
	focus      focusArea
	phase      domain.TransferPhase
	lastHandle domain.TxHandle

	nativeBal *big.Int
	tokenBal  *big.Int
	loading   bool

	toasts    []notify.Notification
	status    string
	statusErr bool
	width     int
	quitting  bool
}

// New builds the model in its initial state: disconnected unless the session
// already holds a connection, idle, first asset selected, empty inputs.
func New(ctx context.Context, cfg Config) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = registry.MustDefault()
	}

	recipient := textinput.New()
	recipient.Placeholder = "0x..."
	recipient.Prompt = ""
	recipient.CharLimit = 42
	recipient.Width = 44

	amount := textinput.New()
	amount.Placeholder = "0.0"
	amount.Prompt = ""
	amount.CharLimit = 40
	amount.Width = 24

	return Model{
		ctx:       ctx,
		session:   cfg.Session,
		balances:  cfg.Balances,
		transfers: cfg.Transfers,
		registry:  reg,
		network:   cfg.Network,
		notes:     cfg.Notifications,
		conn:      cfg.Session.State(),
		recipient: recipient,
		amount:    amount,
		phase:     domain.PhaseIdle,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForNotification(m.notes)}
	if m.conn.Connected() {
		cmds = append(cmds, m.refresh(true))
	}
	return tea.Batch(cmds...)
}

// Asset returns the selected asset.
func (m Model) Asset() domain.AssetDescriptor {
	return m.registry.At(m.assetIdx)
}

// Connection returns the connection state as last seen by the UI.
func (m Model) Connection() domain.ConnectionState { return m.conn }

// Phase returns the transfer phase.
func (m Model) Phase() domain.TransferPhase { return m.phase }

// Inputs returns the recipient and amount field values.
func (m Model) Inputs() (recipient, amount string) {
	return m.recipient.Value(), m.amount.Value()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case connectedMsg:
		m.connecting = ""
		m.conn = msg.state
		if msg.err != nil {
			m.setError("Connect failed: " + msg.err.Error())
			return m, nil
		}
		m.clearStatus()
		m.nativeBal, m.tokenBal = nil, nil
		m.focus = focusRecipient
		m.applyFocus()
		cmd := m.refresh(true)
		return m, cmd

	case disconnectedMsg:
		m.conn = m.session.State()
		m.nativeBal, m.tokenBal = nil, nil
		m.loading = false
		m.focus = focusNone
		m.applyFocus()
		return m, nil

	case balancesMsg:
		return m.applyBalances(msg), nil

	case submittedMsg:
		return m.applySubmitted(msg)

	case confirmedMsg:
		return m.applyConfirmed(msg)

	case notificationMsg:
		m.toasts = append(m.toasts, msg.note)
		if len(m.toasts) > maxToasts {
			m.toasts = m.toasts[len(m.toasts)-maxToasts:]
		}
		return m, waitForNotification(m.notes)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % focusCount
		m.applyFocus()
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + focusCount - 1) % focusCount
		m.applyFocus()
		return m, nil
	case "ctrl+n":
		return m.selectAsset(m.assetIdx + 1)
	case "ctrl+p":
		return m.selectAsset(m.assetIdx - 1)
	case "ctrl+r":
		if !m.conn.Connected() {
			return m, nil
		}
		cmd := m.refresh(true)
		return m, cmd
	case "enter":
		return m.submit()
	}

	switch m.focus {
	case focusRecipient:
		var cmd tea.Cmd
		m.recipient, cmd = m.recipient.Update(msg)
		return m, cmd
	case focusAmount:
		var cmd tea.Cmd
		m.amount, cmd = m.amount.Update(msg)
		return m, cmd
	}

	key := msg.String()
	if key == "d" {
		if m.conn.Status != domain.ConnConnected {
			return m, nil
		}
		return m, disconnectCmd(m.session)
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return m.connect(int(key[0] - '1'))
	}
	return m, nil
}

func (m Model) connect(i int) (tea.Model, tea.Cmd) {
	connectors := m.session.Connectors()
	if i >= len(connectors) || m.conn.Status != domain.ConnDisconnected {
		return m, nil
	}
	kind := connectors[i].Kind()
	m.connecting = kind
	m.conn = domain.ConnectionState{Status: domain.ConnConnecting, Connector: string(kind)}
	m.clearStatus()
	return m, connectCmd(m.ctx, m.session, kind)
}

// selectAsset changes the balance source; the wallet connection is untouched.
func (m Model) selectAsset(i int) (tea.Model, tea.Cmd) {
	n := m.registry.Len()
	next := ((i % n) + n) % n
	if next == m.assetIdx {
		return m, nil
	}
	m.assetIdx = next
	m.tokenBal = nil
	if !m.conn.Connected() {
		return m, nil
	}
	cmd := m.refresh(false)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.phase.InFlight() {
		return m, nil
	}
	req := domain.TransferRequest{
		Recipient: strings.TrimSpace(m.recipient.Value()),
		Amount:    strings.TrimSpace(m.amount.Value()),
		Asset:     m.Asset(),
	}
	if !m.transfers.Ready(req) {
		return m, nil
	}
	m.phase = domain.PhaseSubmitting
	m.clearStatus()
	return m, submitCmd(m.ctx, m.transfers, req)
}

func (m Model) applySubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, transfer.ErrInvalidAmount), errors.Is(msg.err, transfer.ErrInvalidRecipient):
			m.phase = domain.PhaseIdle
			m.setError(msg.err.Error())
		case errors.Is(msg.err, transfer.ErrNotReady):
			m.phase = domain.PhaseIdle
		default:
			m.phase = domain.PhaseFailed
		}
		return m, nil
	}
	m.phase = domain.PhaseConfirming
	m.lastHandle = msg.handle
	return m, trackCmd(m.ctx, m.transfers, msg.asset, msg.handle)
}

func (m Model) applyConfirmed(msg confirmedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.phase = domain.PhaseFailed
		return m, nil
	}
	m.phase = domain.PhaseConfirmed
	m.recipient.SetValue("")
	m.amount.SetValue("")
	if !m.conn.Connected() {
		return m, nil
	}
	cmd := m.refresh(true)
	return m, cmd
}

func (m Model) applyBalances(msg balancesMsg) Model {
	m.loading = false
	if msg.owner != m.conn.Address {
		return m
	}
	if msg.native != nil {
		m.nativeBal = msg.native
	}
	if msg.token != nil && msg.symbol == m.Asset().Symbol {
		m.tokenBal = msg.token
	}
	if msg.err != nil {
		m.setError("Balance unavailable: " + msg.err.Error())
	}
	return m
}

func (m *Model) refresh(native bool) tea.Cmd {
	cmd := refreshCmd(m.ctx, m.balances, m.conn.Address, m.Asset(), native)
	if cmd != nil {
		m.loading = true
	}
	return cmd
}

func (m *Model) applyFocus() {
	m.recipient.Blur()
	m.amount.Blur()
	switch m.focus {
	case focusRecipient:
		m.recipient.Focus()
	case focusAmount:
		m.amount.Focus()
	}
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}
