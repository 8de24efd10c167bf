package domain

import "time"

// HistoryAction captures how a history entry came to exist.
type HistoryAction string

const (
	HistoryCreated HistoryAction = "created"
	HistoryUpdated HistoryAction = "updated"
)

// HistoryNotSet is the sentinel rendered for absent values in history
// entries. The audit log stores display strings, not raw typed values.
const HistoryNotSet = "-"

// HistoryEntry is one immutable line of an entity's change history.
// OldValue is nil only on the synthetic creation entry.
type HistoryEntry struct {
	Field    string        `json:"field"`
	OldValue *string       `json:"oldValue"`
	NewValue string        `json:"newValue"`
	Date     time.Time     `json:"date"`
	Action   HistoryAction `json:"action"`
}
