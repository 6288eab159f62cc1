package pipeline

// Session tracks one in-progress drag gesture. At most one exists at a
// time; the coordinator owns it and serializes access. The lifecycle is
// Idle -> Dragging -> (Dropped | Cancelled) -> Idle, with all fields
// cleared on the way back to Idle.
type Session struct {
	dragging bool

	itemID           string
	originCollection Collection
	originStatus     Status
	originIndex      int

	hoverColumnID string
	hoverIndex    int
}

// Drop captures the origin of a completed drag, handed to the coordinator
// when the session terminates.
type Drop struct {
	ItemID           string
	OriginCollection Collection
	OriginStatus     Status
	OriginIndex      int
}

// Active reports whether a drag is in progress.
func (s *Session) Active() bool {
	return s.dragging
}

// ItemID returns the dragged item's ID, if a drag is active.
func (s *Session) ItemID() (string, bool) {
	return s.itemID, s.dragging
}

// Start begins a drag. A second gesture while one is active is rejected;
// the first gesture keeps the session.
func (s *Session) Start(itemID string, c Collection, origin Status, originIndex int) error {
	if s.dragging {
		return ErrDragInProgress
	}
	s.dragging = true
	s.itemID = itemID
	s.originCollection = c
	s.originStatus = origin
	s.originIndex = originIndex
	return nil
}

// Hover records the current candidate destination. Purely advisory: it
// feeds the pointer affordance and has no effect on the eventual drop.
func (s *Session) Hover(columnID string, index int) {
	if !s.dragging {
		return
	}
	s.hoverColumnID = columnID
	s.hoverIndex = index
}

// Hovering returns the last advisory destination.
func (s *Session) Hovering() (string, int) {
	return s.hoverColumnID, s.hoverIndex
}

// End terminates the drag and returns its origin. Both the dropped and
// the cancelled paths go through here; the session returns to Idle either
// way.
func (s *Session) End() (Drop, error) {
	if !s.dragging {
		return Drop{}, ErrNoActiveDrag
	}
	drop := Drop{
		ItemID:           s.itemID,
		OriginCollection: s.originCollection,
		OriginStatus:     s.originStatus,
		OriginIndex:      s.originIndex,
	}
	*s = Session{}
	return drop, nil
}
