package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/vietddude/tokensend/internal/core/domain"
	"github.com/vietddude/tokensend/internal/infra/chain/evm"
	"github.com/vietddude/tokensend/internal/notify"
)

var (
	ErrNotConnected      = errors.New("wallet not connected")
	ErrConnectInProgress = errors.New("connection already in progress")
	ErrNoAccounts        = errors.New("wallet returned no accounts")
	ErrUnknownConnector  = errors.New("connector not available")
	ErrWrongChain        = errors.New("wallet is on the wrong network")
	ErrConnectCanceled   = errors.New("connection canceled by disconnect")
)

// Session is the wallet connection shared by the UI and the orchestrator.
type Session struct {
	chainID    uint64
	connectors []*Connector
	notifier   notify.Sink
	log        *slog.Logger

	mu     sync.RWMutex
	state  domain.ConnectionState
	active *Connector
	// gen advances on every Disconnect; a handshake that started under an
	// older gen must not publish its result.
	gen uint64
}

// NewSession creates a disconnected session for chainID.
func NewSession(chainID uint64, notifier notify.Sink, connectors ...*Connector) *Session {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Session{
		chainID:    chainID,
		connectors: connectors,
		notifier:   notifier,
		log:        slog.Default().With("component", "wallet"),
		state:      domain.ConnectionState{Status: domain.ConnDisconnected},
	}
}

// Connectors returns the available connection methods.
func (s *Session) Connectors() []*Connector {
	return s.connectors
}

// Connector looks up a connector by kind.
func (s *Session) Connector(kind ConnectorKind) (*Connector, bool) {
	for _, c := range s.connectors {
		if c.kind == kind {
			return c, true
		}
	}
	return nil, false
}

// State returns a snapshot of the connection state.
func (s *Session) State() domain.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Connect attempts a connection through the connector of the given kind.
func (s *Session) Connect(ctx context.Context, kind ConnectorKind) (domain.ConnectionState, error) {
	c, ok := s.Connector(kind)
	if !ok {
		return s.State(), fmt.Errorf("%w: %s", ErrUnknownConnector, kind)
	}

	s.mu.Lock()
	if s.state.Status == domain.ConnConnecting {
		s.mu.Unlock()
		return s.State(), ErrConnectInProgress
	}
	previous := s.state
	previousActive := s.active
	gen := s.gen
	s.state = domain.ConnectionState{Status: domain.ConnConnecting, Connector: string(kind)}
	s.mu.Unlock()

	address, err := s.handshake(ctx, c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		s.log.Info("wallet connect dropped after disconnect", "connector", kind)
		return s.state, ErrConnectCanceled
	}
	if err != nil {
		// A failed attempt leaves an existing connection untouched.
		s.state = previous
		s.active = previousActive
		s.log.Warn("wallet connect failed", "connector", kind, "error", err)
		return s.state, err
	}

	s.state = domain.ConnectionState{
		Status:    domain.ConnConnected,
		Address:   address,
		Connector: string(kind),
	}
	s.active = c
	s.log.Info("wallet connected", "connector", kind, "address", address)
	return s.state, nil
}

func (s *Session) handshake(ctx context.Context, c *Connector) (string, error) {
	accounts, err := c.RequestAccounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", ErrNoAccounts
	}
	if !domain.IsHexAddress(accounts[0]) {
		return "", fmt.Errorf("wallet returned invalid account %q", accounts[0])
	}

	if s.chainID != 0 {
		got, err := c.ChainID(ctx)
		if err != nil {
			return "", err
		}
		if got != s.chainID {
			return "", fmt.Errorf("%w: connected to chain %d, want %d", ErrWrongChain, got, s.chainID)
		}
	}
	return accounts[0], nil
}

// Disconnect drops the connection.
func (s *Session) Disconnect() {
	s.mu.Lock()
	wasConnected := s.state.Status == domain.ConnConnected
	s.gen++
	s.state = domain.ConnectionState{Status: domain.ConnDisconnected}
	s.active = nil
	s.mu.Unlock()

	if wasConnected {
		s.log.Info("wallet disconnected")
		notify.Info(s.notifier, "Wallet disconnected successfully.", "")
	}
}

// SendTransaction submits tx through the connected wallet exactly once.
func (s *Session) SendTransaction(ctx context.Context, tx domain.TxRequest) (domain.TxHandle, error) {
	s.mu.RLock()
	state, active := s.state, s.active
	s.mu.RUnlock()

	if !state.Connected() || active == nil {
		return "", ErrNotConnected
	}

	from := tx.From
	if from == "" {
		from = state.Address
	}
	if !strings.EqualFold(from, state.Address) {
		return "", fmt.Errorf("sender %s is not the connected account", from)
	}

	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	params := map[string]any{
		"from":  from,
		"to":    tx.To,
		"value": evm.EncodeQuantity(value),
	}
	if len(tx.Data) > 0 {
		params["data"] = evm.EncodeData(tx.Data)
	}
	if tx.ChainID != 0 {
		params["chainId"] = evm.EncodeQuantity(new(big.Int).SetUint64(tx.ChainID))
	}

	hash, err := active.sendTransaction(ctx, params)
	if err != nil {
		return "", err
	}
	return domain.TxHandle(hash), nil
}
