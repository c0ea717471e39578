package pricing

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxDecimals is the largest token precision accepted; 10^77 still fits in 256 bits.
const MaxDecimals = 77

const (
	// ReserveComponents is the minimum number of get_reserves fields.
	ReserveComponents = 4
	// InvariantComponents is the exact number of klast fields.
	InvariantComponents = 2
)

// ErrZeroLiquidity is returned when a pool side holds no balance, so no price exists.
var ErrZeroLiquidity = errors.New("zero liquidity")

// UnitScale returns 10^decimals.
func UnitScale(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// SumComponents adds raw contract words. Nil words count as zero.
func SumComponents(values []*big.Int) *big.Int {
	sum := new(big.Int)
	for _, value := range values {
		if value == nil {
			continue
		}
		sum.Add(sum, value)
	}
	return sum
}

// SplitReserves pairs get_reserves components: [0]+[1] is X, [2]+[3] is Y.
// Components past the fourth are ignored.
func SplitReserves(components []*big.Int) (*big.Int, *big.Int, error) {
	if len(components) < ReserveComponents {
		return nil, nil, fmt.Errorf("reserves: got %d components, want at least %d", len(components), ReserveComponents)
	}
	x := SumComponents(components[0:2])
	y := SumComponents(components[2:4])
	return x, y, nil
}

// Balance converts a raw reserve into token units: reserve / 10^decimals.
func Balance(reserve *big.Int, decimals uint8) *big.Rat {
	if reserve == nil {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(reserve, UnitScale(decimals))
}

// Prices returns the price of X in Y and of Y in X.
func Prices(balanceX, balanceY *big.Rat) (*big.Rat, *big.Rat, error) {
	if balanceX == nil || balanceX.Sign() == 0 {
		return nil, nil, fmt.Errorf("x balance is zero: %w", ErrZeroLiquidity)
	}
	if balanceY == nil || balanceY.Sign() == 0 {
		return nil, nil, fmt.Errorf("y balance is zero: %w", ErrZeroLiquidity)
	}
	priceX := new(big.Rat).Quo(balanceY, balanceX)
	priceY := new(big.Rat).Quo(balanceX, balanceY)
	return priceX, priceY, nil
}

// FormatRat renders value rounded to places decimal digits with trailing zeros trimmed.
func FormatRat(value *big.Rat, places int32) string {
	if value == nil {
		return "0"
	}
	if places < 0 {
		places = 0
	}
	num := decimal.NewFromBigInt(value.Num(), 0)
	den := decimal.NewFromBigInt(value.Denom(), 0)
	return num.DivRound(den, places).String()
}

// FormatBalance renders a balance exactly; the denominator always divides 10^decimals.
func FormatBalance(value *big.Rat, decimals uint8) string {
	return FormatRat(value, int32(decimals))
}
