package pipeline

import "errors"

var (
	// ErrDragInProgress indicates a drag gesture is already active.
	ErrDragInProgress = errors.New("drag already in progress")
	// ErrNoActiveDrag indicates no drag gesture is in progress.
	ErrNoActiveDrag = errors.New("no active drag")
	// ErrUnknownCollection indicates an unrecognized collection name.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrUnknownStatus indicates a status outside the collection's set.
	ErrUnknownStatus = errors.New("unknown status for collection")
	// ErrUnknownColumn indicates a column identifier that doesn't decode.
	ErrUnknownColumn = errors.New("unknown column identifier")
	// ErrItemNotFound indicates the item is not on the board.
	ErrItemNotFound = errors.New("item not found on board")
)
