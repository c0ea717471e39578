package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"poolmon/internal/model"
)

// Entry points read from pools and tokens.
const (
	EntryToken0      = "token0"
	EntryToken1      = "token1"
	EntryDecimals    = "decimals"
	EntryGetReserves = "get_reserves"
	EntryKLast       = "klast"
)

const (
	NetworkStarknet = "starknet"
	NetworkEVM      = "evm"
)

var (
	// ErrMalformedResult marks a node reply that arrived but cannot be decoded
	// into result words.
	ErrMalformedResult = errors.New("malformed contract response")
	// ErrUnsupportedCall marks a call the reader refuses to encode.
	ErrUnsupportedCall = errors.New("unsupported contract call")
)

// ContractReader executes read-only calls at the latest block and returns the
// raw result words in order.
type ContractReader interface {
	Call(ctx context.Context, contract model.Address, entryPoint string, calldata ...*big.Int) ([]*big.Int, error)
}

// Reader is a ContractReader owning a network connection.
type Reader interface {
	ContractReader
	Close()
}

// Dial connects to rpcURL using the reader for the given network.
func Dial(ctx context.Context, network, rpcURL, abiPath string) (Reader, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "", NetworkStarknet:
		return NewStarknetClient(ctx, rpcURL)
	case NetworkEVM:
		contractABI, err := LoadABI(abiPath)
		if err != nil {
			return nil, err
		}
		return NewEVMClient(ctx, rpcURL, contractABI)
	default:
		return nil, fmt.Errorf("unsupported network: %s", network)
	}
}
