package contact

import (
	"time"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// Contact represents a person moving through the contacts pipeline,
// optionally linked to the lead it came from.
type Contact struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Company    string          `json:"company,omitempty"`
	Role       string          `json:"role,omitempty"`
	LeadID     *string         `json:"lead_id,omitempty"`
	Status     pipeline.Status `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
}

// Card converts a contact to its pipeline item view.
func (c *Contact) Card() pipeline.Item {
	detail := c.Company
	if c.Role != "" {
		if detail != "" {
			detail = c.Role + ", " + detail
		} else {
			detail = c.Role
		}
	}
	return pipeline.Item{
		ID:         c.ID,
		Collection: pipeline.CollectionContacts,
		Status:     c.Status,
		Title:      c.Name,
		Detail:     detail,
	}
}
