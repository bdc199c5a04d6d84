package economy

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Parameter names accepted by SetParameter. Fee and reward parameters are
// supplied in decimal display units and stored in micro-units; the item
// price is a whole reward-token count.
const (
	ParamEntryFeeHigh = "entryFeeHigh"
	ParamEntryFeeLow  = "entryFeeLow"
	ParamRewardAmount = "rewardAmount"
	ParamItemPrice    = "itemPrice"
)

// ParseDisplayAmount converts decimal display-unit input to micro-units,
// truncating toward zero. Negative, unparsable, or non-finite input clamps
// to zero; admin setters never fail on bad input.
func ParseDisplayAmount(raw string) *big.Int {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return big.NewInt(0)
	}
	scaled := new(big.Float).Mul(big.NewFloat(value), big.NewFloat(MicroPerDisplayUnit))
	micro, _ := scaled.Int(nil)
	if micro.Sign() < 0 {
		return big.NewInt(0)
	}
	return micro
}

// ParseTokenAmount converts integer reward-token input, clamping negative
// or unparsable values to zero.
func ParseTokenAmount(raw string) uint64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return uint64(value)
}
