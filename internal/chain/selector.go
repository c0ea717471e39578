package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// selectorMask keeps the low 250 bits of a keccak digest.
var selectorMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// Selector returns the Starknet entry point selector for a function name.
func Selector(name string) *big.Int {
	digest := new(big.Int).SetBytes(crypto.Keccak256([]byte(name)))
	return digest.And(digest, selectorMask)
}

// SelectorHex returns Selector(name) as a 0x-prefixed hex string.
func SelectorHex(name string) string {
	return hexutil.EncodeBig(Selector(name))
}
