package monitor

import "time"

// Status is the latest connectivity snapshot.
type Status struct {
	Postgres   bool      `json:"postgres"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}
