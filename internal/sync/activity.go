package sync

import (
	"time"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/store"
)

func feedKey(feed string) string {
	if feed == domain.FeedUser {
		return store.KeyUserActivities
	}
	return store.KeyAdminActivities
}

// Activities returns the feed ordered newest first.
func (m *Manager) Activities(feed string) []domain.ActivityEntry {
	var entries []domain.ActivityEntry
	if _, err := m.store.GetJSON(feedKey(feed), &entries); err != nil {
		m.logger.Warn("activity feed read failed", zap.String("feed", feed), zap.Error(err))
		return nil
	}
	return entries
}

// RecordActivity prepends a new entry to the feed and trims it to the
// retention cap.
func (m *Manager) RecordActivity(feed, entryType, action string, source domain.Source, user string) domain.ActivityEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.Activities(feed)

	entry := domain.ActivityEntry{
		ID:        newID("activity", func(string) bool { return false }),
		Type:      entryType,
		Action:    action,
		Timestamp: time.Now(),
		Source:    source,
		User:      user,
	}
	entries = append([]domain.ActivityEntry{entry}, entries...)
	if cap := domain.FeedCap(feed); len(entries) > cap {
		entries = entries[:cap]
	}

	if err := m.persist(feedKey(feed), entries); err != nil {
		m.logger.Warn("activity persist failed", zap.String("feed", feed), zap.Error(err))
		return entry
	}
	m.bus.Publish(domain.CollectionActivities, source, entries)
	return entry
}

// TrimActivities re-applies the retention cap to both feeds. Used by the
// scheduled retention sweep; a no-op when the feeds are already in bounds.
func (m *Manager) TrimActivities() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, feed := range []string{domain.FeedAdmin, domain.FeedUser} {
		entries := m.Activities(feed)
		cap := domain.FeedCap(feed)
		if len(entries) <= cap {
			continue
		}
		entries = entries[:cap]
		if err := m.persist(feedKey(feed), entries); err != nil {
			m.logger.Warn("activity trim persist failed", zap.String("feed", feed), zap.Error(err))
			continue
		}
		m.bus.Publish(domain.CollectionActivities, domain.SourceSystem, entries)
	}
}
