package domain

// Source tags every mutation with the party that issued it. The tag selects
// merge rules and labels broadcast events.
type Source string

const (
	SourceAdmin  Source = "admin"
	SourceUser   Source = "user"
	SourceSystem Source = "system"
)

func (s Source) Valid() bool {
	switch s {
	case SourceAdmin, SourceUser, SourceSystem:
		return true
	}
	return false
}

// Collection identifies one of the shared datasets managed by the sync core.
type Collection string

const (
	CollectionTasks      Collection = "tasks"
	CollectionDocuments  Collection = "documents"
	CollectionUsers      Collection = "users"
	CollectionActivities Collection = "activities"
	CollectionContent    Collection = "content"
)

// Collections returns every shared collection.
func Collections() []Collection {
	return []Collection{
		CollectionTasks,
		CollectionDocuments,
		CollectionUsers,
		CollectionActivities,
		CollectionContent,
	}
}
