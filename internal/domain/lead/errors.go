package lead

import "errors"

var (
	// ErrLeadNotFound indicates the lead doesn't exist.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrInvalidInput indicates invalid input for lead operations.
	ErrInvalidInput = errors.New("invalid lead input")
	// ErrInvalidStatus indicates a status outside the lead pipeline.
	ErrInvalidStatus = errors.New("invalid lead status")
)
