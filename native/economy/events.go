package economy

import (
	"math/big"
	"strconv"

	"gamehub/core/types"
)

// Event types emitted by committed economy transitions.
const (
	EventDeposit         = "economy.deposit"
	EventWithdraw        = "economy.withdraw"
	EventGameEntered     = "economy.game.entered"
	EventGameWon         = "economy.game.won"
	EventTokensConverted = "economy.tokens.converted"
	EventCoinGameEnded   = "economy.game.coin_finished"
	EventItemPurchased   = "economy.item.purchased"
	EventParamUpdated    = "economy.param.updated"
	EventTokensGranted   = "economy.tokens.granted"
)

func newEvent(eventType string, attrs map[string]string) *types.Event {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}

func amountAttr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func uintAttr(v uint64) string {
	return strconv.FormatUint(v, 10)
}
