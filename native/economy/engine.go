package economy

import (
	"fmt"
	"math/big"

	"gamehub/core/types"
)

// Engine applies economy operations to a ledger snapshot. Every operation
// is a pure transition: the input state is never mutated, a successful
// call returns a fresh state value, and a rejection returns the matching
// sentinel error with no state produced. Business-rule violations are
// ordinary rejections, never panics.
type Engine struct{}

// NewEngine constructs the economy engine. The engine is stateless; a
// single instance can serve any number of sessions.
func NewEngine() *Engine {
	return &Engine{}
}

// Result bundles the state produced by a committed transition with the
// human-readable outcome and the events emitted along the way.
type Result struct {
	State   *types.LedgerState
	Outcome string
	Events  []*types.Event
}

// Deposit credits the supplied micro-unit amount to both the player
// balance and the hub treasury. The hub custodies player funds, so an
// external wallet deposit increases both sides by the same amount.
func (e *Engine) Deposit(state *types.LedgerState, amount *big.Int) (*Result, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amountAttr(amount))
	}
	next := state.Clone()
	next.Player.Balance.Add(next.Player.Balance, amount)
	next.Treasury.Add(next.Treasury, amount)
	return &Result{
		State:   next,
		Outcome: fmt.Sprintf("Successfully deposited %s %s.", FormatDisplay(amount), SettlementSymbol),
		Events: []*types.Event{newEvent(EventDeposit, map[string]string{
			"amount": amount.String(),
		})},
	}, nil
}

// Withdraw debits the supplied micro-unit amount from both the player
// balance and the treasury. The player balance is checked before the
// treasury; on rejection the state is unchanged.
func (e *Engine) Withdraw(state *types.LedgerState, amount *big.Int) (*Result, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amountAttr(amount))
	}
	next := state.Clone()
	if next.Player.Balance.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientPlayerBalance,
			FormatDisplay(next.Player.Balance), FormatDisplay(amount))
	}
	if next.Treasury.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: treasury holds %s, need %s", ErrInsufficientTreasury,
			FormatDisplay(next.Treasury), FormatDisplay(amount))
	}
	next.Player.Balance.Sub(next.Player.Balance, amount)
	next.Treasury.Sub(next.Treasury, amount)
	return &Result{
		State:   next,
		Outcome: fmt.Sprintf("Successfully withdrew %s %s.", FormatDisplay(amount), SettlementSymbol),
		Events: []*types.Event{newEvent(EventWithdraw, map[string]string{
			"amount": amount.String(),
		})},
	}, nil
}

// EnterGame charges the entry fee for the selected tier, moving it from
// the player balance into the treasury. Confirmation flows are a caller
// concern; the engine commits the single atomic transition.
func (e *Engine) EnterGame(state *types.LedgerState, lowStakes bool) (*Result, error) {
	next := state.Clone()
	fee := next.Params.EntryFeeHigh
	tier := "High Stakes"
	if lowStakes {
		fee = next.Params.EntryFeeLow
		tier = "Coin Collection"
	}
	if next.Player.Balance.Cmp(fee) < 0 {
		return nil, fmt.Errorf("%w: %s %s required to enter the %s game", ErrInsufficientFunds,
			FormatDisplay(fee), SettlementSymbol, tier)
	}
	next.Player.Balance.Sub(next.Player.Balance, fee)
	next.Treasury.Add(next.Treasury, fee)
	return &Result{
		State:   next,
		Outcome: fmt.Sprintf("Entered the %s game! Fee: %s %s.", tier, FormatDisplay(fee), SettlementSymbol),
		Events: []*types.Event{newEvent(EventGameEntered, map[string]string{
			"tier": tier,
			"fee":  fee.String(),
		})},
	}, nil
}

// WinHighStakesGame pays the configured win reward plus a fixed token
// award, converting reward tokens into settlement units whenever the new
// token balance reaches a full conversion block. The base reward and any
// conversion payout are atomic: if the treasury cannot cover both, the
// whole win is rejected and nothing is paid.
func (e *Engine) WinHighStakesGame(state *types.LedgerState) (*Result, error) {
	next := state.Clone()
	reward := new(big.Int).Set(next.Params.RewardAmount)
	if next.Treasury.Cmp(reward) < 0 {
		return nil, fmt.Errorf("%w: reward %s exceeds treasury %s", ErrInsufficientTreasury,
			FormatDisplay(reward), FormatDisplay(next.Treasury))
	}

	newTokens := next.Player.RewardTokens + TokensPerWin
	remainder := newTokens
	payout := big.NewInt(0)
	var converted uint64
	if newTokens >= TokensPerConversion {
		converted = newTokens / TokensPerConversion
		remainder = newTokens % TokensPerConversion
		payout = new(big.Int).Mul(new(big.Int).SetUint64(converted), microPerConversion)
		total := new(big.Int).Add(reward, payout)
		if next.Treasury.Cmp(total) < 0 {
			return nil, fmt.Errorf("%w: need %s, treasury holds %s", ErrInsufficientTreasuryForConversion,
				FormatDisplay(total), FormatDisplay(next.Treasury))
		}
	}

	credit := new(big.Int).Add(reward, payout)
	next.Treasury.Sub(next.Treasury, credit)
	next.Player.Balance.Add(next.Player.Balance, credit)
	next.Player.RewardTokens = remainder
	next.Player.Score++

	events := []*types.Event{newEvent(EventGameWon, map[string]string{
		"reward":     reward.String(),
		"tokenAward": uintAttr(TokensPerWin),
		"score":      uintAttr(next.Player.Score),
	})}
	if converted > 0 {
		events = append(events, newEvent(EventTokensConverted, map[string]string{
			"tokens": uintAttr(converted * TokensPerConversion),
			"payout": payout.String(),
		}))
	}
	return &Result{
		State: next,
		Outcome: fmt.Sprintf("VICTORY! Won %s %s, %d %s, and converted %s %s. Score +1.",
			FormatDisplay(reward), SettlementSymbol, TokensPerWin, TokenSymbol,
			FormatDisplay(payout), SettlementSymbol),
		Events: events,
	}, nil
}

// EndLowStakesGame settles a finished coin-collection round. The coin
// count is supplied by the caller so the engine stays deterministic; every
// full block of coins awards tokens. A zero award still commits.
func (e *Engine) EndLowStakesGame(state *types.LedgerState, collectedCoins uint64) (*Result, error) {
	next := state.Clone()
	awardUnits := collectedCoins / CoinsPerAwardUnit
	tokenAward := awardUnits * TokensPerAwardUnit
	next.Player.RewardTokens += tokenAward

	outcome := fmt.Sprintf("Game Over: Collected %d coins. No %s awarded this time.", collectedCoins, TokenSymbol)
	if tokenAward > 0 {
		outcome = fmt.Sprintf("Game Over: Collected %d coins and earned %d %s tokens.", collectedCoins, tokenAward, TokenSymbol)
	}
	return &Result{
		State:   next,
		Outcome: outcome,
		Events: []*types.Event{newEvent(EventCoinGameEnded, map[string]string{
			"coins":      uintAttr(collectedCoins),
			"tokenAward": uintAttr(tokenAward),
		})},
	}, nil
}

// BuyItem spends reward tokens on a store item. Repeat purchases reject
// idempotently: once owned, every further attempt fails with
// ErrItemAlreadyOwned and never charges again.
func (e *Engine) BuyItem(state *types.LedgerState, itemID, price uint64) (*Result, error) {
	next := state.Clone()
	if next.Player.HasItem(itemID) {
		return nil, fmt.Errorf("%w: item %d", ErrItemAlreadyOwned, itemID)
	}
	if next.Player.RewardTokens < price {
		return nil, fmt.Errorf("%w: need %d more %s", ErrInsufficientRewardTokens,
			price-next.Player.RewardTokens, TokenSymbol)
	}
	next.Player.RewardTokens -= price
	next.Player.OwnedItems[itemID] = true
	return &Result{
		State:   next,
		Outcome: fmt.Sprintf("Item %d purchased for %d %s!", itemID, price, TokenSymbol),
		Events: []*types.Event{newEvent(EventItemPurchased, map[string]string{
			"item":  uintAttr(itemID),
			"price": uintAttr(price),
		})},
	}, nil
}

// SetParameter parses and clamps the raw admin input for the named
// parameter, then replaces it. Malformed input is not an error: it clamps
// to zero, so the setter always commits for a known parameter name.
func (e *Engine) SetParameter(state *types.LedgerState, name, raw string) (*Result, error) {
	next := state.Clone()
	var outcome, attr string
	switch name {
	case ParamEntryFeeHigh:
		value := ParseDisplayAmount(raw)
		next.Params.EntryFeeHigh = value
		outcome = fmt.Sprintf("Updated %s to %s %s.", name, FormatDisplay(value), SettlementSymbol)
		attr = value.String()
	case ParamEntryFeeLow:
		value := ParseDisplayAmount(raw)
		next.Params.EntryFeeLow = value
		outcome = fmt.Sprintf("Updated %s to %s %s.", name, FormatDisplay(value), SettlementSymbol)
		attr = value.String()
	case ParamRewardAmount:
		value := ParseDisplayAmount(raw)
		next.Params.RewardAmount = value
		outcome = fmt.Sprintf("Updated %s to %s %s.", name, FormatDisplay(value), SettlementSymbol)
		attr = value.String()
	case ParamItemPrice:
		value := ParseTokenAmount(raw)
		next.Params.ItemPrice = value
		outcome = fmt.Sprintf("Updated %s to %d %s.", name, value, TokenSymbol)
		attr = uintAttr(value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return &Result{
		State:   next,
		Outcome: outcome,
		Events: []*types.Event{newEvent(EventParamUpdated, map[string]string{
			"name":  name,
			"value": attr,
		})},
	}, nil
}

// GrantRewardTokens credits the player with admin-granted tokens. The raw
// amount clamps to a non-negative integer, so the grant always commits.
func (e *Engine) GrantRewardTokens(state *types.LedgerState, raw string) (*Result, error) {
	amount := ParseTokenAmount(raw)
	next := state.Clone()
	next.Player.RewardTokens += amount
	return &Result{
		State:   next,
		Outcome: fmt.Sprintf("Added %d %s tokens (admin action).", amount, TokenSymbol),
		Events: []*types.Event{newEvent(EventTokensGranted, map[string]string{
			"amount": uintAttr(amount),
		})},
	}, nil
}
