package economy

import "errors"

var (
	ErrInvalidAmount                     = errors.New("economy: amount must be positive")
	ErrInsufficientPlayerBalance         = errors.New("economy: insufficient player balance")
	ErrInsufficientTreasury              = errors.New("economy: insufficient treasury")
	ErrInsufficientFunds                 = errors.New("economy: insufficient funds for entry fee")
	ErrInsufficientTreasuryForConversion = errors.New("economy: treasury cannot cover reward and conversion")
	ErrInsufficientRewardTokens          = errors.New("economy: insufficient reward tokens")
	ErrItemAlreadyOwned                  = errors.New("economy: item already owned")
	ErrUnknownParameter                  = errors.New("economy: unknown parameter")
)

// RejectionReason maps an engine rejection to a stable label suitable for
// metrics and RPC error payloads. Unknown errors map to "internal".
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientPlayerBalance):
		return "insufficient_player_balance"
	case errors.Is(err, ErrInsufficientTreasury):
		return "insufficient_treasury"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientTreasuryForConversion):
		return "insufficient_treasury_for_conversion"
	case errors.Is(err, ErrInsufficientRewardTokens):
		return "insufficient_reward_tokens"
	case errors.Is(err, ErrItemAlreadyOwned):
		return "item_already_owned"
	case errors.Is(err, ErrUnknownParameter):
		return "unknown_parameter"
	default:
		return "internal"
	}
}

// IsRejection reports whether the error is one of the engine's business
// rejections as opposed to a programming error.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	return RejectionReason(err) != "internal"
}
