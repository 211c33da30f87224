package sync

import (
	"testing"

	"github.com/hubsync/backend/domain"
)

func TestUserSubmissionEntersReviewQueue(t *testing.T) {
	m, _ := newTestManager(t)

	doc, err := m.AddDocument(domain.Document{Title: "Expense claim"}, domain.SourceUser)
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if doc.Status != domain.DocumentStatusUnderReview {
		t.Errorf("status = %q, want under-review for user submissions", doc.Status)
	}

	adminDoc, _ := m.AddDocument(domain.Document{Title: "Policy draft"}, domain.SourceAdmin)
	if adminDoc.Status != domain.DocumentStatusPending {
		t.Errorf("status = %q, want pending for admin-created documents", adminDoc.Status)
	}
}

func TestDocumentUpdateIsPlainOverwrite(t *testing.T) {
	m, _ := newTestManager(t)

	doc, _ := m.AddDocument(domain.Document{Title: "Contract", UserResponse: "initial"}, domain.SourceUser)

	// Document merges carry no field restriction, admin included.
	updated, ok := m.UpdateDocument(doc.ID, domain.DocumentPatch{
		UserResponse: strPtr("amended by admin"),
		AdminNote:    strPtr("needs signature"),
	}, domain.SourceAdmin)
	if !ok {
		t.Fatal("update failed")
	}
	if updated.UserResponse != "amended by admin" {
		t.Errorf("userResponse = %q, document merges must overwrite", updated.UserResponse)
	}
	if updated.AdminNote != "needs signature" {
		t.Errorf("adminNote = %q", updated.AdminNote)
	}
}

func TestReviewDocumentStampsVerdict(t *testing.T) {
	m, _ := newTestManager(t)

	doc, _ := m.AddDocument(domain.Document{Title: "Timesheet"}, domain.SourceUser)

	reviewed, ok := m.ReviewDocument(doc.ID, domain.DocumentStatusApproved, "looks right", domain.SourceAdmin)
	if !ok {
		t.Fatal("review failed")
	}
	if reviewed.Status != domain.DocumentStatusApproved {
		t.Errorf("status = %q", reviewed.Status)
	}
	if reviewed.ReviewDate == nil {
		t.Error("review date not stamped")
	}
	if reviewed.AdminNote != "looks right" {
		t.Errorf("adminNote = %q", reviewed.AdminNote)
	}
}

func TestDeleteDocumentHardDeletes(t *testing.T) {
	m, _ := newTestManager(t)

	doc, _ := m.AddDocument(domain.Document{Title: "scratch"}, domain.SourceUser)
	if !m.DeleteDocument(doc.ID, domain.SourceAdmin) {
		t.Fatal("delete should succeed")
	}
	if _, ok := m.Documents()[doc.ID]; ok {
		t.Error("document should be purged, not archived")
	}
	if m.DeleteDocument(doc.ID, domain.SourceAdmin) {
		t.Error("repeat delete should report false")
	}
}
