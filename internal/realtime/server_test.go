package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/bus"
)

func startTestServer(t *testing.T) (*Server, *bus.Bus) {
	t.Helper()
	b := bus.New(zap.NewNop())
	srv := NewServer(0, zap.NewNop())
	srv.Attach(b)
	if err := srv.Start(); err != nil {
		t.Fatalf("start realtime server: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })
	return srv, b
}

func TestServerStartStop(t *testing.T) {
	srv, _ := startTestServer(t)
	if srv.Addr() == "" {
		t.Fatal("server address is empty")
	}
}

func TestBusEventReachesClient(t *testing.T) {
	srv, b := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+srv.Addr()+"/realtime", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Connection registration races with the publish; give it a moment.
	time.Sleep(100 * time.Millisecond)

	b.Publish(domain.CollectionTasks, domain.SourceAdmin, map[string]string{"hello": "world"})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Collection != string(domain.CollectionTasks) {
		t.Fatalf("unexpected collection %q", msg.Collection)
	}
	if msg.Source != string(domain.SourceAdmin) {
		t.Fatalf("unexpected source %q", msg.Source)
	}
}
