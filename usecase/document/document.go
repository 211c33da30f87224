// Package document exposes the document review cycle to transport handlers.
package document

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status   string
	Priority string
}

type UseCase struct {
	manager *syncmgr.Manager
	logger  *zap.Logger
}

func New(manager *syncmgr.Manager, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		manager: manager,
		logger:  logger,
	}
}

// List returns documents matching the filter, keyed by id.
func (uc *UseCase) List(filter Filter) map[string]domain.Document {
	docs := uc.manager.Documents()
	if filter == (Filter{}) {
		return docs
	}
	matched := make(map[string]domain.Document, len(docs))
	for id, doc := range docs {
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && doc.Priority != filter.Priority {
			continue
		}
		matched[id] = doc
	}
	return matched
}

// Get returns one document by id.
func (uc *UseCase) Get(id string) (*domain.Document, error) {
	doc, ok := uc.manager.Documents()[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &doc, nil
}

// Submit files a new document.
func (uc *UseCase) Submit(draft domain.Document, source domain.Source, actor string) (*domain.Document, error) {
	created, err := uc.manager.AddDocument(draft, source)
	if err != nil {
		return nil, err
	}
	uc.record(source, actor, fmt.Sprintf("submitted document %q", created.Title))
	return &created, nil
}

// Update applies a patch to an existing document.
func (uc *UseCase) Update(id string, patch domain.DocumentPatch, source domain.Source, actor string) (*domain.Document, error) {
	updated, ok := uc.manager.UpdateDocument(id, patch, source)
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	uc.record(source, actor, fmt.Sprintf("updated document %q", updated.Title))
	return updated, nil
}

// Review records an admin verdict. Only approve/reject are valid verdicts.
func (uc *UseCase) Review(id, verdict, note string, actor string) (*domain.Document, error) {
	if verdict != domain.DocumentStatusApproved && verdict != domain.DocumentStatusRejected {
		return nil, domain.NewError(domain.ErrCodeInvalid, "verdict must be approved or rejected")
	}
	reviewed, ok := uc.manager.ReviewDocument(id, verdict, note, domain.SourceAdmin)
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	uc.record(domain.SourceAdmin, actor, fmt.Sprintf("%s document %q", verdict, reviewed.Title))
	return reviewed, nil
}

// Delete purges a document.
func (uc *UseCase) Delete(id string, source domain.Source, actor string) error {
	if !uc.manager.DeleteDocument(id, source) {
		return domain.ErrDocumentNotFound
	}
	uc.record(source, actor, "deleted document "+id)
	return nil
}

func (uc *UseCase) record(source domain.Source, actor, action string) {
	feed := domain.FeedAdmin
	if source == domain.SourceUser {
		feed = domain.FeedUser
	}
	uc.manager.RecordActivity(feed, "document", action, source, actor)
}
