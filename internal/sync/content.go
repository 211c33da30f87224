package sync

import (
	"time"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/store"
)

// Content returns hub articles keyed by id. Archived items are included;
// callers wanting the public view use ActiveContent.
func (m *Manager) Content() map[string]domain.ContentItem {
	items := make(map[string]domain.ContentItem)
	if _, err := m.store.GetJSON(store.KeyContent, &items); err != nil {
		m.logger.Warn("content collection read failed", zap.Error(err))
		return map[string]domain.ContentItem{}
	}
	if items == nil {
		items = map[string]domain.ContentItem{}
	}
	return items
}

// ActiveContent filters out archived items.
func (m *Manager) ActiveContent() []domain.ContentItem {
	var active []domain.ContentItem
	for _, item := range m.Content() {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active
}

// AddContent publishes a new hub article.
func (m *Manager) AddContent(draft domain.ContentItem, source domain.Source) (domain.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.Content()

	draft.ID = newID("content", func(id string) bool { _, taken := items[id]; return taken })
	draft.DateCreated = time.Now()
	draft.IsActive = true

	items[draft.ID] = draft
	if err := m.persist(store.KeyContent, items); err != nil {
		return domain.ContentItem{}, err
	}
	m.bus.Publish(domain.CollectionContent, source, items)
	return draft, nil
}

// UpdateContent merges the patch into an existing article.
func (m *Manager) UpdateContent(id string, patch domain.ContentPatch, source domain.Source) (*domain.ContentItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.Content()
	item, ok := items[id]
	if !ok {
		return nil, false
	}

	patch.Apply(&item, source)
	items[id] = item

	if err := m.persist(store.KeyContent, items); err != nil {
		m.logger.Warn("content update persist failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	m.bus.Publish(domain.CollectionContent, source, items)
	return &item, true
}

// ArchiveContent soft-deletes the article by clearing its active flag.
// Content is archived, never purged.
func (m *Manager) ArchiveContent(id string, source domain.Source) bool {
	inactive := false
	_, ok := m.UpdateContent(id, domain.ContentPatch{IsActive: &inactive}, source)
	return ok
}
