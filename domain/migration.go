package domain

// MigrationStatus tracks which local collections have been pushed to the
// cloud mirror. Flags flip once and stay set.
type MigrationStatus struct {
	Users     bool `json:"users"`
	Tasks     bool `json:"tasks"`
	Documents bool `json:"documents"`
	Content   bool `json:"content"`
}

func (s MigrationStatus) Complete() bool {
	return s.Users && s.Tasks && s.Documents && s.Content
}
