// Package models defines the domain types for memopad.
package models

import "time"

// DefaultKey is the storage key the memo is persisted under.
const DefaultKey = "my-memo"

// Memo is the single persisted text value edited by the user.
type Memo struct {
	Key       string    `json:"key"`
	Text      string    `json:"text"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
