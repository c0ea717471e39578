package chain

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// poolABIJSON describes a pair exposing reserves and kLast as two-word values.
const poolABIJSON = `[
  {"inputs": [], "name": "token0", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "token1", "outputs": [{"internalType": "address", "name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "decimals", "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "get_reserves", "outputs": [
    {"internalType": "uint128", "name": "reserve0Low", "type": "uint128"},
    {"internalType": "uint128", "name": "reserve0High", "type": "uint128"},
    {"internalType": "uint128", "name": "reserve1Low", "type": "uint128"},
    {"internalType": "uint128", "name": "reserve1High", "type": "uint128"},
    {"internalType": "uint64", "name": "blockTimestampLast", "type": "uint64"}
  ], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "klast", "outputs": [
    {"internalType": "uint128", "name": "low", "type": "uint128"},
    {"internalType": "uint128", "name": "high", "type": "uint128"}
  ], "stateMutability": "view", "type": "function"}
]`

var (
	poolABI     abi.ABI
	poolABIOnce sync.Once
	poolABIErr  error
)

// PoolABI returns the parsed default pool ABI.
func PoolABI() (abi.ABI, error) {
	poolABIOnce.Do(func() {
		poolABI, poolABIErr = abi.JSON(strings.NewReader(poolABIJSON))
	})
	return poolABI, poolABIErr
}

// LoadABI reads an ABI JSON file, or returns the default pool ABI when path is empty.
func LoadABI(path string) (abi.ABI, error) {
	if strings.TrimSpace(path) == "" {
		parsed, err := PoolABI()
		if err != nil {
			return abi.ABI{}, fmt.Errorf("parse pool abi: %w", err)
		}
		return parsed, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("open abi: %w", err)
	}
	defer file.Close()

	parsed, err := abi.JSON(file)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi %s: %w", path, err)
	}
	return parsed, nil
}
