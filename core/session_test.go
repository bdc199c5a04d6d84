package core

import (
	"errors"
	"math/big"
	"reflect"
	"testing"

	"gamehub/core/types"
	"gamehub/native/economy"
)

func initialLedger() *types.LedgerState {
	return (&types.LedgerState{
		Treasury: big.NewInt(500_000),
		Params: types.Parameters{
			EntryFeeHigh: big.NewInt(100_000),
			EntryFeeLow:  big.NewInt(5_000),
			RewardAmount: big.NewInt(150_000),
			ItemPrice:    50,
		},
		Player: types.PlayerState{
			Balance:      big.NewInt(10_000_000),
			RewardTokens: 100,
			Score:        42,
		},
	}).Normalize()
}

func fixedCoins(value uint64) Option {
	return WithCoinSource(func() uint64 { return value })
}

func TestStagedEntryConfirmAppliesOnce(t *testing.T) {
	session := NewSession(initialLedger())

	id, prompt, err := session.StageEntry(false)
	if err != nil {
		t.Fatalf("stage entry: %v", err)
	}
	if prompt == "" {
		t.Fatalf("expected confirmation prompt")
	}
	if session.State().Player.Balance.Cmp(big.NewInt(10_000_000)) != 0 {
		t.Fatalf("staging must not charge the fee")
	}

	outcome, err := session.Confirm(id)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if outcome == "" {
		t.Fatalf("expected outcome text")
	}
	if got := session.State().Player.Balance; got.Cmp(big.NewInt(9_900_000)) != 0 {
		t.Fatalf("balance = %s, want 9900000", got)
	}

	// The descriptor is consumed: a second confirm of the same id fails
	// and nothing further is charged.
	if _, err := session.Confirm(id); !errors.Is(err, ErrPendingNotFound) {
		t.Fatalf("second confirm err = %v, want ErrPendingNotFound", err)
	}
	if got := session.State().Player.Balance; got.Cmp(big.NewInt(9_900_000)) != 0 {
		t.Fatalf("balance moved on replayed confirm: %s", got)
	}
}

func TestCancelLeavesStateUntouched(t *testing.T) {
	session := NewSession(initialLedger())
	before := session.State()

	id, _, err := session.StagePurchase(economy.ItemSpeedBoost)
	if err != nil {
		t.Fatalf("stage purchase: %v", err)
	}
	if err := session.Cancel(id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !reflect.DeepEqual(before, session.State()) {
		t.Fatalf("state changed by stage/cancel")
	}
	if err := session.Cancel(id); !errors.Is(err, ErrPendingNotFound) {
		t.Fatalf("cancel unknown id err = %v, want ErrPendingNotFound", err)
	}
}

func TestStageEntryRejectsUnaffordable(t *testing.T) {
	ledger := initialLedger()
	ledger.Player.Balance = big.NewInt(4_999)
	session := NewSession(ledger)

	if _, _, err := session.StageEntry(true); !errors.Is(err, economy.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestEndCoinGameUsesInjectedSource(t *testing.T) {
	session := NewSession(initialLedger(), fixedCoins(35_000))

	outcome, err := session.EndCoinGame()
	if err != nil {
		t.Fatalf("end coin game: %v", err)
	}
	if outcome != "Game Over: Collected 35000 coins and earned 15 MINT tokens." {
		t.Fatalf("unexpected outcome %q", outcome)
	}
	if got := session.State().Player.RewardTokens; got != 115 {
		t.Fatalf("tokens = %d, want 115", got)
	}
}

func TestEventLogMatchesOperationOrder(t *testing.T) {
	session := NewSession(initialLedger(), fixedCoins(12_000))

	if _, err := session.Deposit(big.NewInt(1_000_000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := session.SimulateWin(); err != nil {
		t.Fatalf("win: %v", err)
	}
	if _, err := session.EndCoinGame(); err != nil {
		t.Fatalf("end coin game: %v", err)
	}

	events := session.Events()
	wantTypes := []string{economy.EventDeposit, economy.EventGameWon, economy.EventCoinGameEnded}
	if len(events) != len(wantTypes) {
		t.Fatalf("event count = %d, want %d", len(events), len(wantTypes))
	}
	for i, want := range wantTypes {
		if events[i].Type != want {
			t.Fatalf("event[%d] = %s, want %s", i, events[i].Type, want)
		}
	}
	if session.Operations() != 3 {
		t.Fatalf("operations = %d, want 3", session.Operations())
	}
}

// TestReplayDeterminism runs the same recorded sequence through two fresh
// sessions and expects identical final ledgers.
func TestReplayDeterminism(t *testing.T) {
	run := func() *types.LedgerState {
		session := NewSession(initialLedger(), fixedCoins(42_000))
		if _, err := session.Deposit(big.NewInt(2_000_000)); err != nil {
			t.Fatalf("deposit: %v", err)
		}
		id, _, err := session.StageEntry(true)
		if err != nil {
			t.Fatalf("stage: %v", err)
		}
		if _, err := session.Confirm(id); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if _, err := session.EndCoinGame(); err != nil {
			t.Fatalf("coin game: %v", err)
		}
		if _, err := session.SimulateWin(); err != nil {
			t.Fatalf("win: %v", err)
		}
		if _, err := session.GrantTokens("25"); err != nil {
			t.Fatalf("grant: %v", err)
		}
		return session.State()
	}

	if first, second := run(), run(); !reflect.DeepEqual(first, second) {
		t.Fatalf("replay diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAdminParameterFlow(t *testing.T) {
	session := NewSession(initialLedger())

	if _, err := session.SetParameter(economy.ParamItemPrice, "75"); err != nil {
		t.Fatalf("set parameter: %v", err)
	}
	if got := session.State().Params.ItemPrice; got != 75 {
		t.Fatalf("itemPrice = %d, want 75", got)
	}
	if _, err := session.SetParameter("bogus", "1"); !errors.Is(err, economy.ErrUnknownParameter) {
		t.Fatalf("err = %v, want ErrUnknownParameter", err)
	}
}
