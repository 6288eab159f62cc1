package mcp

import (
	"errors"
	"fmt"

	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, lead.ErrLeadNotFound):
		return &APIError{Code: "LEAD_NOT_FOUND", Message: "lead not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, contact.ErrContactNotFound):
		return &APIError{Code: "CONTACT_NOT_FOUND", Message: "contact not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, contact.ErrUnknownLead):
		return &APIError{Code: "UNKNOWN_LEAD", Message: "linked lead does not exist", RecoveryHint: "Create the lead first or omit lead_id"}
	case errors.Is(err, lead.ErrInvalidStatus), errors.Is(err, contact.ErrInvalidStatus), errors.Is(err, pipeline.ErrUnknownStatus):
		return &APIError{Code: "INVALID_STATUS", Message: "status not valid for this collection", RecoveryHint: "Use a stage from the item's own pipeline"}
	case errors.Is(err, lead.ErrInvalidInput), errors.Is(err, contact.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input", RecoveryHint: "Name is required"}
	case errors.Is(err, pipeline.ErrUnknownCollection):
		return &APIError{Code: "UNKNOWN_COLLECTION", Message: "unknown collection", RecoveryHint: "Use 'leads' or 'contacts'"}
	case errors.Is(err, pipeline.ErrItemNotFound):
		return &APIError{Code: "ITEM_NOT_FOUND", Message: "item not on the board", RecoveryHint: "Refresh the board and retry"}
	default:
		return nil
	}
}

// wrapError converts a domain error to its API form where one is mapped.
func wrapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
