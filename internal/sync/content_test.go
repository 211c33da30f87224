package sync

import (
	"testing"

	"github.com/hubsync/backend/domain"
)

func TestArchiveContentIsSoftDelete(t *testing.T) {
	m, _ := newTestManager(t)

	item, err := m.AddContent(domain.ContentItem{Title: "Cloud migration primer", Category: "cloud"}, domain.SourceAdmin)
	if err != nil {
		t.Fatalf("AddContent failed: %v", err)
	}
	if !item.IsActive {
		t.Fatal("new content should start active")
	}

	if !m.ArchiveContent(item.ID, domain.SourceAdmin) {
		t.Fatal("archive failed")
	}

	// Archived items leave the public view but stay in the collection.
	for _, active := range m.ActiveContent() {
		if active.ID == item.ID {
			t.Error("archived item still listed as active")
		}
	}
	stored, ok := m.Content()[item.ID]
	if !ok {
		t.Fatal("archived item was purged, expected soft delete")
	}
	if stored.IsActive {
		t.Error("archived item still flagged active")
	}
}

func TestUpdateContentPatchesFields(t *testing.T) {
	m, _ := newTestManager(t)

	item, _ := m.AddContent(domain.ContentItem{Title: "AI basics"}, domain.SourceAdmin)

	updated, ok := m.UpdateContent(item.ID, domain.ContentPatch{
		Title:    strPtr("AI fundamentals"),
		Category: strPtr("ai"),
	}, domain.SourceAdmin)
	if !ok {
		t.Fatal("update failed")
	}
	if updated.Title != "AI fundamentals" || updated.Category != "ai" {
		t.Errorf("patch not applied: %+v", updated)
	}

	if _, ok := m.UpdateContent("content_missing", domain.ContentPatch{}, domain.SourceAdmin); ok {
		t.Error("updating unknown content should report false")
	}
}
