package core

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"gamehub/core/types"
	"gamehub/native/economy"
	"gamehub/observability"
)

// Coin-collection rounds yield a coin count in [CoinGameMinCoins,
// CoinGameMaxCoins).
const (
	CoinGameMinCoins uint64 = 10_000
	CoinGameMaxCoins uint64 = 60_000
)

var (
	ErrPendingNotFound = errors.New("core: pending operation not found")
)

type pendingKind int

const (
	pendingEntry pendingKind = iota
	pendingPurchase
)

type pendingOp struct {
	kind      pendingKind
	lowStakes bool
	itemID    uint64
	price     uint64
}

// Session owns the ledger for one player-hub pair. All operations are
// applied serially under a single lock; every transition goes through the
// economy engine so the session never mutates balances itself. The session
// also carries the confirm-before-commit workflow for game entries and
// store purchases: staged operations are held as pending descriptors until
// the caller confirms or cancels, and the engine only runs on confirm.
type Session struct {
	mu       sync.Mutex
	engine   *economy.Engine
	state    *types.LedgerState
	events   []*types.Event
	pending  map[string]pendingOp
	playerID uuid.UUID
	coins    func() uint64
	metrics  *observability.EconomyMetrics
	ops      uint64
}

// Option customises session construction.
type Option func(*Session)

// WithCoinSource overrides the randomness source used to settle
// coin-collection rounds. Tests inject fixed values to stay deterministic.
func WithCoinSource(source func() uint64) Option {
	return func(s *Session) {
		if source != nil {
			s.coins = source
		}
	}
}

// NewSession starts a session from the supplied initial ledger. The input
// is cloned; the caller's value is never touched afterwards.
func NewSession(initial *types.LedgerState, opts ...Option) *Session {
	s := &Session{
		engine:   economy.NewEngine(),
		state:    initial.Clone(),
		pending:  make(map[string]pendingOp),
		playerID: uuid.New(),
		metrics:  observability.Economy(),
		coins: func() uint64 {
			return CoinGameMinCoins + rand.Uint64N(CoinGameMaxCoins-CoinGameMinCoins)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.RecordBalances(s.state.Treasury, s.state.Player.Balance, s.state.Player.RewardTokens)
	return s
}

// PlayerID returns the identifier assigned to the session's player.
func (s *Session) PlayerID() string {
	return s.playerID.String()
}

// State returns a copy of the current ledger.
func (s *Session) State() *types.LedgerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Events returns a copy of the event log in commit order.
func (s *Session) Events() []*types.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Event, 0, len(s.events))
	for _, evt := range s.events {
		out = append(out, evt.Clone())
	}
	return out
}

// Operations returns the number of committed transitions.
func (s *Session) Operations() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops
}

// Deposit credits an external wallet deposit.
func (s *Session) Deposit(amount *big.Int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.engine.Deposit(s.state, amount)
	return s.apply("deposit", res, err)
}

// Withdraw returns funds to the external wallet.
func (s *Session) Withdraw(amount *big.Int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.engine.Withdraw(s.state, amount)
	return s.apply("withdraw", res, err)
}

// StageEntry validates a game entry against the current ledger and parks
// it as a pending operation. Nothing is charged until Confirm.
func (s *Session) StageEntry(lowStakes bool) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.engine.EnterGame(s.state, lowStakes); err != nil {
		s.metrics.Observe("enter_game", economy.RejectionReason(err))
		return "", "", err
	}
	fee := s.state.Params.EntryFeeHigh
	tier := "High Stakes"
	if lowStakes {
		fee = s.state.Params.EntryFeeLow
		tier = "Coin Collection"
	}
	id := uuid.NewString()
	s.pending[id] = pendingOp{kind: pendingEntry, lowStakes: lowStakes}
	prompt := fmt.Sprintf("Are you sure you want to spend %s %s to enter the %s game?",
		economy.FormatDisplay(fee), economy.SettlementSymbol, tier)
	return id, prompt, nil
}

// StagePurchase validates a store purchase at the current item price and
// parks it as a pending operation.
func (s *Session) StagePurchase(itemID uint64) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	price := s.state.Params.ItemPrice
	if _, err := s.engine.BuyItem(s.state, itemID, price); err != nil {
		s.metrics.Observe("buy_item", economy.RejectionReason(err))
		return "", "", err
	}
	id := uuid.NewString()
	s.pending[id] = pendingOp{kind: pendingPurchase, itemID: itemID, price: price}
	prompt := fmt.Sprintf("Are you sure you want to spend %d %s tokens on Item %d?",
		price, economy.TokenSymbol, itemID)
	return id, prompt, nil
}

// Confirm commits a previously staged operation. The engine re-validates
// against the current ledger, so a confirm can still reject if the state
// moved since staging. The descriptor is consumed either way.
func (s *Session) Confirm(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.pending[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrPendingNotFound, id)
	}
	delete(s.pending, id)
	switch op.kind {
	case pendingPurchase:
		res, err := s.engine.BuyItem(s.state, op.itemID, op.price)
		return s.apply("buy_item", res, err)
	default:
		res, err := s.engine.EnterGame(s.state, op.lowStakes)
		return s.apply("enter_game", res, err)
	}
}

// Cancel drops a staged operation without touching the ledger.
func (s *Session) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPendingNotFound, id)
	}
	delete(s.pending, id)
	return nil
}

// SimulateWin settles a high-stakes win.
func (s *Session) SimulateWin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.engine.WinHighStakesGame(s.state)
	return s.apply("win_game", res, err)
}

// EndCoinGame draws a coin count from the session's randomness source and
// settles the coin-collection round.
func (s *Session) EndCoinGame() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.engine.EndLowStakesGame(s.state, s.coins())
	return s.apply("end_coin_game", res, err)
}

// SetParameter updates one of the hub's economic parameters. Authorization
// is the transport layer's concern; the session applies any request it is
// handed.
func (s *Session) SetParameter(name, raw string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.engine.SetParameter(s.state, name, raw)
	return s.apply("set_parameter", res, err)
}

// GrantTokens credits admin-granted reward tokens to the player.
func (s *Session) GrantTokens(raw string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.engine.GrantRewardTokens(s.state, raw)
	return s.apply("grant_tokens", res, err)
}

// apply commits an engine result while s.mu is held, or records the
// rejection. A rejected operation leaves the ledger untouched.
func (s *Session) apply(op string, res *economy.Result, err error) (string, error) {
	if err != nil {
		s.metrics.Observe(op, economy.RejectionReason(err))
		return "", err
	}
	s.state = res.State
	for _, evt := range res.Events {
		s.events = append(s.events, evt.Clone())
	}
	s.ops++
	s.metrics.Observe(op, "")
	s.metrics.RecordBalances(s.state.Treasury, s.state.Player.Balance, s.state.Player.RewardTokens)
	return res.Outcome, nil
}
