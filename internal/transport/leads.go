package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
)

// refreshBoard reloads a collection's board from its source after a CRUD
// mutation, so the next board read reflects the change.
func (s *Server) refreshBoard(ctx context.Context, col pipeline.Collection) {
	board, ok := s.coordinator.Board(col)
	if !ok {
		return
	}
	var src pipeline.Source
	switch col {
	case pipeline.CollectionLeads:
		src = s.leads
	case pipeline.CollectionContacts:
		src = s.contacts
	default:
		return
	}
	if err := pipeline.Refresh(ctx, src, board); err != nil {
		s.logger.Warn("failed to refresh board", "collection", col, "error", err)
	}
}

type createLeadRequest struct {
	Name    string          `json:"name"`
	Company string          `json:"company"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Source  string          `json:"source"`
	Status  pipeline.Status `json:"status"`
}

type updateLeadRequest struct {
	Name    *string `json:"name"`
	Company *string `json:"company"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Source  *string `json:"source"`
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.leads.List(r.Context())
	if err != nil {
		s.logger.Error("listing leads", "error", err)
		writeDomainError(w, err)
		return
	}
	if leads == nil {
		leads = []lead.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := s.leads.Create(r.Context(), lead.CreateRequest{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Source:  req.Source,
		Status:  req.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.refreshBoard(r.Context(), pipeline.CollectionLeads)
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	l, err := s.leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var req updateLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := s.leads.Update(r.Context(), lead.UpdateRequest{
		ID:      chi.URLParam(r, "id"),
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Source:  req.Source,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.refreshBoard(r.Context(), pipeline.CollectionLeads)
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := s.leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.refreshBoard(r.Context(), pipeline.CollectionLeads)
	w.WriteHeader(http.StatusNoContent)
}
