package resolve

import "fmt"

// EntryType classifies a resolution decision.
type EntryType string

const (
	EntrySkip             EntryType = "skip"
	EntryOverwrite        EntryType = "overwrite"
	EntryRegenerateID     EntryType = "regenerate-id"
	EntryMerge            EntryType = "merge"
	EntryDropOrphan       EntryType = "drop-orphan"
	EntryReassign         EntryType = "reassign"
	EntryNormalizeDefault EntryType = "normalize-default"
	EntryRemapReference   EntryType = "remap-reference"
)

// ItemType names the kind of record a log entry is about.
type ItemType string

const (
	ItemTask     ItemType = "task"
	ItemBoard    ItemType = "board"
	ItemSettings ItemType = "settings"
)

// LogEntry is one decision of the resolution log.
type LogEntry struct {
	Type     EntryType `json:"type"`
	ItemType ItemType  `json:"itemType"`
	ItemID   string    `json:"itemId"`
	// NewID is the id the item (or, for remap-reference and reassign, its
	// board reference) ends up with.
	NewID        string   `json:"newId,omitempty"`
	Reason       string   `json:"reason"`
	MergedFields []string `json:"mergedFields,omitempty"`
}

func (e LogEntry) String() string {
	s := fmt.Sprintf("%s %s %s", e.Type, e.ItemType, e.ItemID)
	if e.NewID != "" {
		s += " -> " + e.NewID
	}

	return s + ": " + e.Reason
}

// IDMap maps original identifiers to their replacements.
type IDMap map[string]string

// Lookup returns the replacement of id, or id itself when it was not
// remapped.
func (m IDMap) Lookup(id string) string {
	if newID, ok := m[id]; ok {
		return newID
	}

	return id
}
