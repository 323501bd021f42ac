package repository

import "time"

// Entry represents one key-value row.
type Entry struct {
	Key       string
	Value     string
	Checksum  string
	UpdatedAt time.Time
}
