package domain

import "time"

// Activity feeds. The admin feed aggregates every source; the user feed only
// carries entries surfaced to dashboard users.
const (
	FeedAdmin = "admin"
	FeedUser  = "user"
)

// Retention caps per feed. Feeds are append-only, newest first, and trimmed
// to the cap on every write.
const (
	AdminFeedCap = 50
	UserFeedCap  = 20
)

// ActivityEntry records one event in an activity feed.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
	User      string    `json:"user,omitempty"`
}

// FeedCap returns the retention cap for the given feed name.
func FeedCap(feed string) int {
	if feed == FeedUser {
		return UserFeedCap
	}
	return AdminFeedCap
}
