package entity

import "time"

// Snapshot is the raw JSON output of one completed analysis.
type Snapshot struct {
	Data      string
	UpdatedAt time.Time
}

func (s Snapshot) Bytes() int {
	return len(s.Data)
}
