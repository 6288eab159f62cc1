package pipeline

import (
	"context"
	"fmt"
	"sync"
)

// Board holds the in-memory item set for one collection. It is the shared
// view both the gesture surface and the reconciler read and write: the
// reconciler's optimistic apply and compensating revert are the only
// status mutations; Replace swaps in a fresh read from the data source.
type Board struct {
	collection Collection

	mu    sync.RWMutex
	order []string
	items map[string]Item
}

// NewBoard creates an empty board for a collection.
func NewBoard(c Collection) *Board {
	return &Board{
		collection: c,
		items:      make(map[string]Item),
	}
}

// Collection returns the collection this board renders.
func (b *Board) Collection() Collection {
	return b.collection
}

// Replace swaps the board contents with a fresh item set, preserving the
// given source order. Items from another collection or with a status
// outside the collection's set are rejected wholesale.
func (b *Board) Replace(items []Item) error {
	next := make(map[string]Item, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if item.Collection != b.collection {
			return fmt.Errorf("%w: item %s belongs to %s", ErrUnknownCollection, item.ID, item.Collection)
		}
		if !ValidStatus(b.collection, item.Status) {
			return fmt.Errorf("%w: item %s has status %s", ErrUnknownStatus, item.ID, item.Status)
		}
		if _, dup := next[item.ID]; dup {
			continue
		}
		next[item.ID] = item
		order = append(order, item.ID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = next
	b.order = order
	return nil
}

// Columns partitions the items into one column per defined status, in
// status order, with items in source order. Every item lands in exactly
// one column.
func (b *Board) Columns() []Column {
	b.mu.RLock()
	defer b.mu.RUnlock()

	statuses := Statuses(b.collection)
	cols := make([]Column, len(statuses))
	index := make(map[Status]int, len(statuses))
	for i, s := range statuses {
		cols[i] = Column{ID: ColumnID(b.collection, s), Status: s, Items: []Item{}}
		index[s] = i
	}
	for _, id := range b.order {
		item := b.items[id]
		i := index[item.Status]
		cols[i].Items = append(cols[i].Items, item)
	}
	return cols
}

// Get returns a copy of an item by ID.
func (b *Board) Get(id string) (Item, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	item, ok := b.items[id]
	return item, ok
}

// Locate returns an item's current status and its index within its
// column.
func (b *Board) Locate(id string) (Status, int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	item, ok := b.items[id]
	if !ok {
		return "", 0, false
	}
	idx := 0
	for _, other := range b.order {
		if other == id {
			break
		}
		if b.items[other].Status == item.Status {
			idx++
		}
	}
	return item.Status, idx, true
}

// SetStatus mutates a single item's status and returns the previous
// value. It touches nothing but the status field of the identified item,
// so a compensating revert can never clobber concurrent edits to other
// fields or other items.
func (b *Board) SetStatus(id string, s Status) (Status, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items[id]
	if !ok {
		return "", false
	}
	prev := item.Status
	item.Status = s
	b.items[id] = item
	return prev, true
}

// Source supplies the current item set for one collection. The external
// data client refreshes boards through this on its own cadence.
type Source interface {
	Items(ctx context.Context) ([]Item, error)
}

// Refresh replaces a board's contents from its data source.
func Refresh(ctx context.Context, src Source, board *Board) error {
	items, err := src.Items(ctx)
	if err != nil {
		return fmt.Errorf("loading %s items: %w", board.Collection(), err)
	}
	return board.Replace(items)
}
