package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

type createContactRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Company string          `json:"company"`
	Role    string          `json:"role"`
	LeadID  *string         `json:"lead_id"`
	Status  pipeline.Status `json:"status"`
}

type updateContactRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Role    *string `json:"role"`
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.contacts.List(r.Context())
	if err != nil {
		s.logger.Error("listing contacts", "error", err)
		writeDomainError(w, err)
		return
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.contacts.Create(r.Context(), contact.CreateRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Role:    req.Role,
		LeadID:  req.LeadID,
		Status:  req.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.refreshBoard(r.Context(), pipeline.CollectionContacts)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	c, err := s.contacts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req updateContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.contacts.Update(r.Context(), contact.UpdateRequest{
		ID:      chi.URLParam(r, "id"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Role:    req.Role,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.refreshBoard(r.Context(), pipeline.CollectionContacts)
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.refreshBoard(r.Context(), pipeline.CollectionContacts)
	w.WriteHeader(http.StatusNoContent)
}
