package activity

import (
	"time"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// Type represents the kind of activity event
type Type string

const (
	TypeLeadCreated       Type = "lead_created"
	TypeLeadUpdated       Type = "lead_updated"
	TypeLeadDeleted       Type = "lead_deleted"
	TypeContactCreated    Type = "contact_created"
	TypeContactUpdated    Type = "contact_updated"
	TypeContactDeleted    Type = "contact_deleted"
	TypeStageChanged      Type = "stage_changed"
	TypeStageChangeFailed Type = "stage_change_failed"
)

// Entry represents an event in the activity log
type Entry struct {
	ID         int64               `json:"id"`
	Collection pipeline.Collection `json:"collection"`
	ItemID     *string             `json:"item_id,omitempty"`
	Type       Type                `json:"type"`
	Summary    string              `json:"summary"`
	Details    string              `json:"details,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}
