package model

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Address identifies a contract on chain. It is wide enough for a Starknet felt
// and holds EVM addresses right-aligned.
type Address [32]byte

// ParseAddress parses a 0x-prefixed (or bare) hex string into an Address.
func ParseAddress(input string) (Address, error) {
	trimmed := strings.TrimSpace(input)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" {
		return Address{}, fmt.Errorf("invalid address: %q", input)
	}
	if len(trimmed) > 64 {
		return Address{}, fmt.Errorf("address too long: %s", input)
	}
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address: %s", input)
	}
	var addr Address
	copy(addr[32-len(raw):], raw)
	return addr, nil
}

// AddressFromBig converts a field value returned by a contract call into an Address.
func AddressFromBig(value *big.Int) (Address, error) {
	if value == nil || value.Sign() < 0 {
		return Address{}, fmt.Errorf("invalid address value: %v", value)
	}
	if value.BitLen() > 256 {
		return Address{}, fmt.Errorf("address value overflows 256 bits: %s", value.Text(16))
	}
	var addr Address
	value.FillBytes(addr[:])
	return addr, nil
}

// Big returns the address as an unsigned integer.
func (a Address) Big() *big.Int {
	return new(big.Int).SetBytes(a[:])
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hex renders the address as 0x followed by 64 hex digits.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
