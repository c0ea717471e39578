package model

import (
	"encoding/json"
	"math/big"
	"time"
)

// PriceReport is the per-cycle view of a pool derived from on-chain state.
type PriceReport struct {
	Pool       Address
	TokenX     Address
	TokenY     Address
	DecimalsX  uint8
	DecimalsY  uint8
	ReserveX   *big.Int
	ReserveY   *big.Int
	K          *big.Int
	XBalance   *big.Rat
	YBalance   *big.Rat
	XPrice     *big.Rat
	YPrice     *big.Rat
	ObservedAt time.Time
}

// priceReportJSON keeps big values as strings so consumers never lose precision.
type priceReportJSON struct {
	Pool       Address `json:"pool"`
	TokenX     Address `json:"token_x"`
	TokenY     Address `json:"token_y"`
	DecimalsX  uint8   `json:"decimals_x"`
	DecimalsY  uint8   `json:"decimals_y"`
	ReserveX   string  `json:"reserve_x"`
	ReserveY   string  `json:"reserve_y"`
	K          string  `json:"k"`
	XBalance   string  `json:"x_balance"`
	YBalance   string  `json:"y_balance"`
	XPrice     string  `json:"x_price"`
	YPrice     string  `json:"y_price"`
	ObservedAt string  `json:"observed_at"`
}

// MarshalJSON encodes balances exactly and prices as reduced fractions ("num/den").
func (r PriceReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(priceReportJSON{
		Pool:       r.Pool,
		TokenX:     r.TokenX,
		TokenY:     r.TokenY,
		DecimalsX:  r.DecimalsX,
		DecimalsY:  r.DecimalsY,
		ReserveX:   intString(r.ReserveX),
		ReserveY:   intString(r.ReserveY),
		K:          intString(r.K),
		XBalance:   ratString(r.XBalance, int(r.DecimalsX)),
		YBalance:   ratString(r.YBalance, int(r.DecimalsY)),
		XPrice:     ratFraction(r.XPrice),
		YPrice:     ratFraction(r.YPrice),
		ObservedAt: r.ObservedAt.UTC().Format(time.RFC3339Nano),
	})
}

func intString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}

// ratString is exact when the denominator divides 10^places, which holds for balances.
func ratString(value *big.Rat, places int) string {
	if value == nil {
		return "0"
	}
	return value.FloatString(places)
}

func ratFraction(value *big.Rat) string {
	if value == nil {
		return "0"
	}
	return value.RatString()
}
