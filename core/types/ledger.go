package types

import "math/big"

// Parameters holds the hub's admin-configurable economic settings. Entry
// fees and the win reward are denominated in settlement micro-units while
// the item price is denominated in whole reward tokens.
type Parameters struct {
	EntryFeeHigh *big.Int `json:"entryFeeHigh"`
	EntryFeeLow  *big.Int `json:"entryFeeLow"`
	RewardAmount *big.Int `json:"rewardAmount"`
	ItemPrice    uint64   `json:"itemPrice"`
}

// PlayerState captures the per-player side of the ledger: the settlement
// balance custodied by the hub, the reward-token balance, the win score,
// and the set of purchased store items.
type PlayerState struct {
	Balance      *big.Int        `json:"balance"`
	RewardTokens uint64          `json:"rewardTokens"`
	Score        uint64          `json:"score"`
	OwnedItems   map[uint64]bool `json:"ownedItems"`
}

// HasItem reports whether the player already owns the given store item.
func (p *PlayerState) HasItem(itemID uint64) bool {
	if p == nil || p.OwnedItems == nil {
		return false
	}
	return p.OwnedItems[itemID]
}

// LedgerState is the data of record for one player-hub session. It carries
// no behaviour; all transitions and invariant checks live in the economy
// engine, which consumes one state value and produces the next.
type LedgerState struct {
	Treasury *big.Int    `json:"treasury"`
	Params   Parameters  `json:"params"`
	Player   PlayerState `json:"player"`
}

// Clone returns a normalized deep copy. Engine operations clone the input
// state and mutate the copy so the prior value stays valid for callers.
func (s *LedgerState) Clone() *LedgerState {
	if s == nil {
		return (&LedgerState{}).Normalize()
	}
	clone := &LedgerState{
		Treasury: cloneAmount(s.Treasury),
		Params: Parameters{
			EntryFeeHigh: cloneAmount(s.Params.EntryFeeHigh),
			EntryFeeLow:  cloneAmount(s.Params.EntryFeeLow),
			RewardAmount: cloneAmount(s.Params.RewardAmount),
			ItemPrice:    s.Params.ItemPrice,
		},
		Player: PlayerState{
			Balance:      cloneAmount(s.Player.Balance),
			RewardTokens: s.Player.RewardTokens,
			Score:        s.Player.Score,
			OwnedItems:   make(map[uint64]bool, len(s.Player.OwnedItems)),
		},
	}
	for id, owned := range s.Player.OwnedItems {
		if owned {
			clone.Player.OwnedItems[id] = true
		}
	}
	return clone
}

// Normalize replaces nil amounts and maps with zero values so callers can
// rely on every field being addressable. It returns the receiver.
func (s *LedgerState) Normalize() *LedgerState {
	if s == nil {
		return nil
	}
	if s.Treasury == nil {
		s.Treasury = big.NewInt(0)
	}
	if s.Params.EntryFeeHigh == nil {
		s.Params.EntryFeeHigh = big.NewInt(0)
	}
	if s.Params.EntryFeeLow == nil {
		s.Params.EntryFeeLow = big.NewInt(0)
	}
	if s.Params.RewardAmount == nil {
		s.Params.RewardAmount = big.NewInt(0)
	}
	if s.Player.Balance == nil {
		s.Player.Balance = big.NewInt(0)
	}
	if s.Player.OwnedItems == nil {
		s.Player.OwnedItems = make(map[uint64]bool)
	}
	return s
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
