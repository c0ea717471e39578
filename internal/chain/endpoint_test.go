package chain

import "testing"

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"https://starknet-mainnet.public.blastapi.io", true},
		{"http://127.0.0.1:9545/rpc/v0_7", true},
		{"wss://node.example.org/ws", true},
		{"", false},
		{"starknet-mainnet.public.blastapi.io", false},
		{"ftp://node.example.org", false},
		{"https://", false},
		{"http://[::1", false},
	}
	for _, tt := range tests {
		_, err := ParseEndpoint(tt.input)
		if tt.ok != (err == nil) {
			t.Errorf("ParseEndpoint(%q) err = %v, want ok=%v", tt.input, err, tt.ok)
		}
	}
}
