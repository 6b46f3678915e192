package catalog

import "time"

// Status tracks an item's processing lifecycle in the catalog.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusDeleted    Status = "deleted"
)

// Item is one catalog row. ExternalID is the Drive file id; duplicates
// can exist historically and are collapsed by the reconciler.
type Item struct {
	ID                   int64
	ExternalID           string
	FolderID             string
	FolderPath           string
	Title                string
	FileName             string
	MimeType             string
	SizeBytes            int64
	ModifiedAt           *time.Time
	Status               Status
	PlaybackOrder        int
	PlaybackRef          string
	IsHidden             bool
	ManualTechniqueID    string
	AITechniqueID        string
	AIConfidence         *float64
	SuggestedTechniqueID string
	SuggestedConfidence  *float64
	SuggestionSource     string
	Phase                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            *time.Time
}

// ManuallyClassified reports whether a curator pinned the technique by
// hand. Automated classification never overwrites such rows.
func (i *Item) ManuallyClassified() bool {
	return i != nil && i.ManualTechniqueID != ""
}
