package repository

import "time"

// KVEntry is one row of the kv table.
type KVEntry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
