package bus

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hubsync/backend/domain"
)

func TestJournalTransportCrossProcessDelivery(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "events.journal")

	publisher := New(nil)
	subscriber := New(nil)

	if err := publisher.Attach(NewJournalTransport(journal, nil)); err != nil {
		t.Fatalf("attach publisher transport: %v", err)
	}
	if err := subscriber.Attach(NewJournalTransport(journal, nil)); err != nil {
		t.Fatalf("attach subscriber transport: %v", err)
	}
	defer publisher.Close()
	defer subscriber.Close()

	var remote atomic.Int32
	subscriber.Subscribe(domain.CollectionUsers, func(ev Event) {
		if ev.Origin == publisher.Origin() {
			remote.Add(1)
		}
	})

	publisher.Publish(domain.CollectionUsers, domain.SourceSystem, map[string]string{"email": "a@b.c"})

	waitFor(t, &remote, 1)
}

func TestJournalTransportSkipsBacklog(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "events.journal")

	early := New(nil)
	if err := early.Attach(NewJournalTransport(journal, nil)); err != nil {
		t.Fatalf("attach early transport: %v", err)
	}
	early.Publish(domain.CollectionTasks, domain.SourceAdmin, nil)
	early.Close()

	late := New(nil)
	if err := late.Attach(NewJournalTransport(journal, nil)); err != nil {
		t.Fatalf("attach late transport: %v", err)
	}
	defer late.Close()

	var count atomic.Int32
	late.Subscribe(domain.CollectionTasks, func(Event) { count.Add(1) })

	// Entries written before Start must not be replayed.
	time.Sleep(150 * time.Millisecond)
	if count.Load() != 0 {
		t.Errorf("backlog should be skipped, got %d deliveries", count.Load())
	}
}
