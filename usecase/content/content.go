// Package content manages the expertise-hub article directory.
package content

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
	syncmgr "github.com/hubsync/backend/internal/sync"
)

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

// List returns active articles, optionally filtered by category or a title
// search, newest first.
func (uc *UseCase) List(category, query string) []domain.ContentItem {
	items := uc.manager.ActiveContent()
	var matched []domain.ContentItem
	for _, item := range items {
		if category != "" && item.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Title), strings.ToLower(query)) {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DateCreated.After(matched[j].DateCreated)
	})
	return matched
}

// Publish adds a new article.
func (uc *UseCase) Publish(draft domain.ContentItem, actor string) (*domain.ContentItem, error) {
	created, err := uc.manager.AddContent(draft, domain.SourceAdmin)
	if err != nil {
		return nil, err
	}
	uc.manager.RecordActivity(domain.FeedAdmin, "content",
		fmt.Sprintf("published article %q", created.Title), domain.SourceAdmin, actor)
	return &created, nil
}

// Update patches an existing article.
func (uc *UseCase) Update(id string, patch domain.ContentPatch, actor string) (*domain.ContentItem, error) {
	updated, ok := uc.manager.UpdateContent(id, patch, domain.SourceAdmin)
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	uc.manager.RecordActivity(domain.FeedAdmin, "content",
		fmt.Sprintf("updated article %q", updated.Title), domain.SourceAdmin, actor)
	return updated, nil
}

// Archive soft-deletes an article.
func (uc *UseCase) Archive(id string, actor string) error {
	if !uc.manager.ArchiveContent(id, domain.SourceAdmin) {
		return domain.ErrContentNotFound
	}
	uc.manager.RecordActivity(domain.FeedAdmin, "content",
		"archived article "+id, domain.SourceAdmin, actor)
	return nil
}
