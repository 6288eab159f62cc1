package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lead.ErrLeadNotFound), errors.Is(err, contact.ErrContactNotFound),
		errors.Is(err, pipeline.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, lead.ErrInvalidInput), errors.Is(err, contact.ErrInvalidInput),
		errors.Is(err, lead.ErrInvalidStatus), errors.Is(err, contact.ErrInvalidStatus),
		errors.Is(err, contact.ErrUnknownLead),
		errors.Is(err, pipeline.ErrUnknownCollection), errors.Is(err, pipeline.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrDragInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
