package sync

import (
	"time"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	"github.com/hubsync/backend/internal/store"
)

// Documents returns the full document collection keyed by id.
func (m *Manager) Documents() map[string]domain.Document {
	docs := make(map[string]domain.Document)
	if _, err := m.store.GetJSON(store.KeyDocuments, &docs); err != nil {
		m.logger.Warn("document collection read failed", zap.Error(err))
		return map[string]domain.Document{}
	}
	if docs == nil {
		docs = map[string]domain.Document{}
	}
	return docs
}

// AddDocument persists a new submission. User submissions enter the review
// queue directly; any other source starts at pending.
func (m *Manager) AddDocument(draft domain.Document, source domain.Source) (domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.Documents()

	now := time.Now()
	draft.ID = newID("doc", func(id string) bool { _, taken := docs[id]; return taken })
	draft.DateCreated = now
	draft.LastModified = now
	if draft.Status == "" {
		if source == domain.SourceUser {
			draft.Status = domain.DocumentStatusUnderReview
		} else {
			draft.Status = domain.DocumentStatusPending
		}
	}
	if draft.Priority == "" {
		draft.Priority = domain.PriorityMedium
	}

	docs[draft.ID] = draft
	if err := m.persist(store.KeyDocuments, docs); err != nil {
		return domain.Document{}, err
	}
	m.bus.Publish(domain.CollectionDocuments, source, docs)
	return draft, nil
}

// UpdateDocument merges the patch as a plain shallow overwrite; document
// merges are not field-restricted for any source.
func (m *Manager) UpdateDocument(id string, patch domain.DocumentPatch, source domain.Source) (*domain.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.Documents()
	doc, ok := docs[id]
	if !ok {
		return nil, false
	}

	patch.Apply(&doc, source)
	doc.LastModified = time.Now()
	docs[id] = doc

	if err := m.persist(store.KeyDocuments, docs); err != nil {
		m.logger.Warn("document update persist failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	m.bus.Publish(domain.CollectionDocuments, source, docs)
	return &doc, true
}

// ReviewDocument applies an admin review verdict, stamping the review time.
func (m *Manager) ReviewDocument(id, status, note string, source domain.Source) (*domain.Document, bool) {
	now := time.Now()
	return m.UpdateDocument(id, domain.DocumentPatch{
		Status:     &status,
		AdminNote:  &note,
		ReviewDate: &now,
	}, source)
}

// DeleteDocument hard-deletes the document, reporting whether it existed.
func (m *Manager) DeleteDocument(id string, source domain.Source) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.Documents()
	if _, ok := docs[id]; !ok {
		return false
	}
	delete(docs, id)

	if err := m.persist(store.KeyDocuments, docs); err != nil {
		m.logger.Warn("document delete persist failed", zap.String("id", id), zap.Error(err))
		return false
	}
	m.bus.Publish(domain.CollectionDocuments, source, docs)
	return true
}
