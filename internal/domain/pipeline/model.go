package pipeline

// Collection identifies which domain set a pipeline item belongs to.
type Collection string

const (
	CollectionLeads    Collection = "leads"
	CollectionContacts Collection = "contacts"
)

// Status is a collection-specific pipeline stage value.
type Status string

// Lead pipeline stages, in board column order.
const (
	LeadNew       Status = "new"
	LeadContacted Status = "contacted"
	LeadQualified Status = "qualified"
	LeadConverted Status = "converted"
	LeadLost      Status = "lost"
)

// Contact pipeline stages, in board column order.
const (
	ContactProspect   Status = "prospect"
	ContactContacted  Status = "contacted"
	ContactInProgress Status = "in_progress"
	ContactClosed     Status = "closed"
)

var leadStatuses = []Status{LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost}

var contactStatuses = []Status{ContactProspect, ContactContacted, ContactInProgress, ContactClosed}

// ParseCollection validates a collection name.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case CollectionLeads:
		return CollectionLeads, nil
	case CollectionContacts:
		return CollectionContacts, nil
	}
	return "", ErrUnknownCollection
}

// Statuses returns the ordered status set for a collection. The returned
// slice is shared; callers must not mutate it.
func Statuses(c Collection) []Status {
	switch c {
	case CollectionLeads:
		return leadStatuses
	case CollectionContacts:
		return contactStatuses
	}
	return nil
}

// ValidStatus reports whether s is a defined status of collection c.
func ValidStatus(c Collection, s Status) bool {
	for _, known := range Statuses(c) {
		if known == s {
			return true
		}
	}
	return false
}

// Item is the normalized view of one draggable card. The engine only
// inspects ID, Collection and Status; the display fields pass through
// untouched.
type Item struct {
	ID         string     `json:"id"`
	Collection Collection `json:"collection"`
	Status     Status     `json:"status"`
	Title      string     `json:"title"`
	Detail     string     `json:"detail,omitempty"`
}

// Column is one board column: every item whose status matches, in source
// order.
type Column struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
	Items  []Item `json:"items"`
}
