package economy

import (
	"fmt"
	"math/big"
)

// Settlement and reward-token denominations. One display unit of the
// settlement currency is 1,000,000 micro-units; 1000 reward tokens convert
// to exactly one display unit at a fixed rate.
const (
	MicroPerDisplayUnit = 1_000_000
	TokensPerConversion = 1000
	TokensPerWin        = 5

	// Coin-collection payout: every full 10,000 coins collected awards
	// five reward tokens.
	CoinsPerAwardUnit  = 10_000
	TokensPerAwardUnit = 5

	// SettlementSymbol and TokenSymbol are the display tickers used in
	// outcome messages.
	SettlementSymbol = "HUB"
	TokenSymbol      = "MINT"
)

// ItemSpeedBoost is the only store item defined today.
const ItemSpeedBoost uint64 = 1

var microPerConversion = big.NewInt(MicroPerDisplayUnit)

// FormatDisplay renders a micro-unit amount as display units with six
// decimal places, the same formatting the hub UI shows to players.
func FormatDisplay(micro *big.Int) string {
	if micro == nil {
		return "0.000000"
	}
	sign := ""
	abs := new(big.Int).Abs(micro)
	if micro.Sign() < 0 {
		sign = "-"
	}
	units, frac := new(big.Int).QuoRem(abs, microPerConversion, new(big.Int))
	return fmt.Sprintf("%s%s.%06d", sign, units.String(), frac.Uint64())
}
