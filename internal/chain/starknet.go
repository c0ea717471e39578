package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"poolmon/internal/model"
)

const blockTagLatest = "latest"

// FunctionCall is the request object of starknet_call.
type FunctionCall struct {
	ContractAddress    string   `json:"contract_address"`
	EntryPointSelector string   `json:"entry_point_selector"`
	Calldata           []string `json:"calldata"`
}

// StarknetClient calls Starknet contracts over JSON-RPC.
type StarknetClient struct {
	rpcClient *rpc.Client
}

// NewStarknetClient creates a client from the RPC URL.
func NewStarknetClient(ctx context.Context, rpcURL string) (*StarknetClient, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &StarknetClient{rpcClient: rpcClient}, nil
}

// Close closes the underlying RPC client.
func (c *StarknetClient) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Call performs starknet_call against the latest block.
func (c *StarknetClient) Call(ctx context.Context, contract model.Address, entryPoint string, calldata ...*big.Int) ([]*big.Int, error) {
	request := FunctionCall{
		ContractAddress:    hexutil.EncodeBig(contract.Big()),
		EntryPointSelector: SelectorHex(entryPoint),
		Calldata:           make([]string, 0, len(calldata)),
	}
	for _, arg := range calldata {
		if arg == nil || arg.Sign() < 0 {
			return nil, fmt.Errorf("%w: invalid calldata for %s: %v", ErrUnsupportedCall, entryPoint, arg)
		}
		request.Calldata = append(request.Calldata, hexutil.EncodeBig(arg))
	}

	var result []string
	if err := c.rpcClient.CallContext(ctx, &result, "starknet_call", request, blockTagLatest); err != nil {
		return nil, err
	}

	values := make([]*big.Int, 0, len(result))
	for i, word := range result {
		value, err := ParseFelt(word)
		if err != nil {
			return nil, fmt.Errorf("%w: %s result[%d]: %v", ErrMalformedResult, entryPoint, i, err)
		}
		values = append(values, value)
	}
	return values, nil
}

// ParseFelt parses a hex field element. Leading zeros are accepted.
func ParseFelt(input string) (*big.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(input), "0x"), "0X")
	if digits == "" {
		return nil, fmt.Errorf("invalid felt: %q", input)
	}
	value, ok := new(big.Int).SetString(digits, 16)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid felt: %q", input)
	}
	return value, nil
}
