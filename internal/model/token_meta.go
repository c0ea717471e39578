package model

// TokenMeta captures the token fields the monitor needs for normalization.
type TokenMeta struct {
	Address  Address `json:"address"`
	Decimals uint8   `json:"decimals"`
}
