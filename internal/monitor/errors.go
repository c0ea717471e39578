package monitor

import (
	"errors"

	"poolmon/internal/chain"
	"poolmon/internal/pricing"
)

var (
	// ErrInvalidConfig marks configuration that prevents a monitor from starting.
	ErrInvalidConfig = errors.New("invalid monitor config")
	// ErrMalformedResponse marks contract results with an unexpected shape or
	// range. Readers report undecodable replies with the same value.
	ErrMalformedResponse = chain.ErrMalformedResult
	// ErrUnsupportedDecimals marks a well-formed decimals value above
	// pricing.MaxDecimals. The token is valid, the monitor just cannot price it.
	ErrUnsupportedDecimals = errors.New("unsupported token decimals")
)

// Recoverable reports whether a cycle error should skip the cycle instead of
// stopping the monitor. Only zero liquidity qualifies.
func Recoverable(err error) bool {
	return errors.Is(err, pricing.ErrZeroLiquidity)
}
