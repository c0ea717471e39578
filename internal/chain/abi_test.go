package chain

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadABI(t *testing.T) {
	parsed, err := LoadABI("")
	if err != nil {
		t.Fatalf("default abi: %v", err)
	}
	for _, name := range []string{EntryToken0, EntryToken1, EntryDecimals, EntryGetReserves, EntryKLast} {
		if _, ok := parsed.Methods[name]; !ok {
			t.Fatalf("default abi missing %s", name)
		}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "pool.json")
	custom := `[{"inputs":[],"name":"klast","outputs":[{"name":"","type":"uint256"},{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("write abi: %v", err)
	}
	parsed, err = LoadABI(path)
	if err != nil {
		t.Fatalf("custom abi: %v", err)
	}
	if len(parsed.Methods) != 1 || len(parsed.Methods[EntryKLast].Outputs) != 2 {
		t.Fatalf("unexpected custom abi: %+v", parsed.Methods)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write bad abi: %v", err)
	}
	if _, err := LoadABI(bad); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadABI(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected open error")
	}
}

func TestDialUnsupportedNetwork(t *testing.T) {
	if _, err := Dial(context.Background(), "solana", "http://127.0.0.1:1", ""); err == nil {
		t.Fatalf("expected unsupported network error")
	}
}
