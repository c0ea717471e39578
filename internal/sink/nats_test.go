package sink

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

func TestNATSSinkPublishes(t *testing.T) {
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	server := natsserver.RunServer(&opts)
	defer server.Shutdown()

	sub, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("connect subscriber: %v", err)
	}
	defer sub.Close()

	messages := make(chan *nats.Msg, 1)
	subscription, err := sub.ChanSubscribe("poolmon.prices", messages)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer subscription.Unsubscribe()
	if err := sub.Flush(); err != nil {
		t.Fatalf("flush subscriber: %v", err)
	}

	s, err := NewNATSSink(server.ClientURL(), "poolmon.prices", zap.NewNop())
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer s.Close()

	if err := s.Emit(context.Background(), sampleReport(t)); err != nil {
		t.Fatalf("emit: %v", err)
	}

	select {
	case msg := <-messages:
		var decoded map[string]interface{}
		if err := json.Unmarshal(msg.Data, &decoded); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if decoded["y_price"] != "1/2" {
			t.Fatalf("y_price mismatch: %v", decoded["y_price"])
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for report")
	}
}

func TestNewNATSSinkValidates(t *testing.T) {
	if _, err := NewNATSSink("", "subject", nil); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := NewNATSSink("nats://127.0.0.1:4222", "", nil); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
