package lead

import (
	"time"

	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// Lead represents a sales lead moving through the leads pipeline. Status
// is the only field the drag engine ever mutates.
type Lead struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Company    string          `json:"company,omitempty"`
	Email      string          `json:"email,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Source     string          `json:"source,omitempty"`
	Status     pipeline.Status `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
}

// Card converts a lead to its pipeline item view. The engine treats
// everything but ID and Status as opaque payload.
func (l *Lead) Card() pipeline.Item {
	return pipeline.Item{
		ID:         l.ID,
		Collection: pipeline.CollectionLeads,
		Status:     l.Status,
		Title:      l.Name,
		Detail:     l.Company,
	}
}
