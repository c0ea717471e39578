package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"poolmon/internal/chain"
)

// newStarknetNode answers every starknet_call with reply and counts requests.
func newStarknetNode(t *testing.T, reply []string, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Method != "starknet_call" {
			t.Errorf("unexpected method %s", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  reply,
		})
	}))
}

func TestUndecodableReplyIsMalformedAndNotRetried(t *testing.T) {
	var hits int32
	node := newStarknetNode(t, []string{"0xzz"}, &hits)
	defer node.Close()

	reader, err := chain.NewStarknetClient(context.Background(), node.URL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer reader.Close()

	cfg := testConfig()
	cfg.MaxRetries = 3
	m, err := New(cfg, reader, newRecordingSink(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = m.FetchReserves(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("node hit %d times, want 1", got)
	}

	if err := m.Start(context.Background()); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected Start to stop with ErrMalformedResponse, got %v", err)
	}
}
