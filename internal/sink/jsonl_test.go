package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONLSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.jsonl")
	s := NewJSONLSink(path)

	for i := 0; i < 2; i++ {
		if err := s.Emit(context.Background(), sampleReport(t)); err != nil {
			t.Fatalf("emit %d: %v", i, err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var lines int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
		var decoded map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if decoded["x_price"] != "2" || decoded["k"] != "1000" {
			t.Fatalf("line %d content mismatch: %v", lines, decoded)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
}
