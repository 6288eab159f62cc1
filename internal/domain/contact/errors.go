package contact

import "errors"

var (
	// ErrContactNotFound indicates the contact doesn't exist.
	ErrContactNotFound = errors.New("contact not found")
	// ErrInvalidInput indicates invalid input for contact operations.
	ErrInvalidInput = errors.New("invalid contact input")
	// ErrInvalidStatus indicates a status outside the contact pipeline.
	ErrInvalidStatus = errors.New("invalid contact status")
	// ErrUnknownLead indicates the linked lead doesn't exist.
	ErrUnknownLead = errors.New("linked lead not found")
)
