package pipeline

import "strings"

// Column identifiers are the wire contract between the gesture layer and
// the coordinator: the owning collection's name, a dash, then the status
// value. Both boards render concurrently, so the prefix is what keeps a
// leads target distinguishable from a contacts target.

// ColumnID encodes a (collection, status) pair into a column identifier.
func ColumnID(c Collection, s Status) string {
	return string(c) + "-" + string(s)
}

// DecodeColumnID parses a column identifier back into its collection and
// status. It fails on unknown prefixes and on statuses outside the
// collection's defined set, so a malformed destination can never be
// misattributed to the wrong board.
func DecodeColumnID(id string) (Collection, Status, error) {
	prefix, rest, found := strings.Cut(id, "-")
	if !found {
		return "", "", ErrUnknownColumn
	}
	c, err := ParseCollection(prefix)
	if err != nil {
		return "", "", ErrUnknownColumn
	}
	s := Status(rest)
	if !ValidStatus(c, s) {
		return "", "", ErrUnknownStatus
	}
	return c, s, nil
}
