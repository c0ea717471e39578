package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"poolmon/internal/model"
)

// EVMClient wraps go-ethereum RPC and reads contracts through an ABI.
type EVMClient struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	abi       abi.ABI
}

// NewEVMClient creates a new EVM reader from the RPC URL.
func NewEVMClient(ctx context.Context, rpcURL string, contractABI abi.ABI) (*EVMClient, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &EVMClient{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		abi:       contractABI,
	}, nil
}

// Close closes the underlying RPC client.
func (c *EVMClient) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Call performs an eth_call at the latest block and flattens the outputs.
func (c *EVMClient) Call(ctx context.Context, contract model.Address, entryPoint string, calldata ...*big.Int) ([]*big.Int, error) {
	to, err := evmAddress(contract)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, 0, len(calldata))
	for _, arg := range calldata {
		args = append(args, arg)
	}
	data, err := c.abi.Pack(entryPoint, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %v", ErrUnsupportedCall, entryPoint, err)
	}

	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}

	values, err := c.abi.Unpack(entryPoint, resp)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %v", ErrMalformedResult, entryPoint, err)
	}
	words, err := FlattenOutputs(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entryPoint, err)
	}
	return words, nil
}

// FlattenOutputs converts unpacked ABI values into unsigned integers. Values
// that cannot be represented are reported as ErrMalformedResult.
func FlattenOutputs(values []interface{}) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(values))
	for i, value := range values {
		word, err := asBigInt(value)
		if err != nil {
			return nil, fmt.Errorf("%w: output %d: %v", ErrMalformedResult, i, err)
		}
		if word.Sign() < 0 {
			return nil, fmt.Errorf("%w: output %d: negative value %s", ErrMalformedResult, i, word)
		}
		out = append(out, word)
	}
	return out, nil
}

func evmAddress(contract model.Address) (common.Address, error) {
	for _, b := range contract[:32-common.AddressLength] {
		if b != 0 {
			return common.Address{}, fmt.Errorf("%w: not an evm address: %s", ErrUnsupportedCall, contract.Hex())
		}
	}
	return common.BytesToAddress(contract[32-common.AddressLength:]), nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case common.Address:
		return new(big.Int).SetBytes(v.Bytes()), nil
	case [32]byte:
		return new(big.Int).SetBytes(v[:]), nil
	case bool:
		if v {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported output type %T", value)
	}
}
