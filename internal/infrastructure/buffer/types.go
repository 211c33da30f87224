package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Buffered collections. Each item carries the full post-mutation collection
// snapshot to reconcile against the cloud mirror.
const (
	CollectionTasks     = "tasks"
	CollectionDocuments = "documents"
	CollectionUsers     = "users"
	CollectionContent   = "content"
)

// Item is a deferred cloud reconcile, persisted while the mirror is
// unreachable.
type Item struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	Snapshot   json.RawMessage `json:"snapshot"`
	Priority   int             `json:"priority"`
	Retries    int             `json:"retries"`
	Timestamp  time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = 3
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
