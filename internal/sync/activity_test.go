package sync

import (
	"fmt"
	"testing"

	"github.com/hubsync/backend/domain"
)

func TestActivityFeedNewestFirst(t *testing.T) {
	m, _ := newTestManager(t)

	m.RecordActivity(domain.FeedAdmin, "task", "created task A", domain.SourceAdmin, "root@example.com")
	m.RecordActivity(domain.FeedAdmin, "task", "created task B", domain.SourceAdmin, "root@example.com")

	entries := m.Activities(domain.FeedAdmin)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != "created task B" {
		t.Errorf("feed not newest-first: %q at head", entries[0].Action)
	}
}

func TestActivityFeedCapped(t *testing.T) {
	m, _ := newTestManager(t)

	for i := 0; i < domain.UserFeedCap+15; i++ {
		m.RecordActivity(domain.FeedUser, "document", fmt.Sprintf("submitted doc %d", i), domain.SourceUser, "dave@example.com")
	}

	entries := m.Activities(domain.FeedUser)
	if len(entries) != domain.UserFeedCap {
		t.Fatalf("feed size = %d, want cap %d", len(entries), domain.UserFeedCap)
	}
	// The most recent entry survives the trim.
	want := fmt.Sprintf("submitted doc %d", domain.UserFeedCap+14)
	if entries[0].Action != want {
		t.Errorf("head entry = %q, want %q", entries[0].Action, want)
	}
}

func TestTrimActivitiesRestoresCap(t *testing.T) {
	m, _ := newTestManager(t)

	// Simulate an oversized feed written by an older process.
	var oversized []domain.ActivityEntry
	for i := 0; i < domain.AdminFeedCap+10; i++ {
		oversized = append(oversized, domain.ActivityEntry{ID: fmt.Sprintf("a%d", i), Action: "x"})
	}
	if err := m.store.PutJSON(feedKey(domain.FeedAdmin), oversized); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	m.TrimActivities()

	if got := len(m.Activities(domain.FeedAdmin)); got != domain.AdminFeedCap {
		t.Errorf("feed size after trim = %d, want %d", got, domain.AdminFeedCap)
	}
}
