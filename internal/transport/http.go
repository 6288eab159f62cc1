package transport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/repository"
)

// Server wires HTTP handlers for the board, the drag gesture endpoints
// and the CRUD resources behind it.
type Server struct {
	coordinator   *pipeline.Coordinator
	leads         *lead.Service
	contacts      *contact.Service
	activities    *activity.Service
	search        repository.SearchRepository
	notifications *pipeline.NotificationBuffer
	logger        *slog.Logger
}

// Deps carries the services the HTTP layer exposes.
type Deps struct {
	Coordinator   *pipeline.Coordinator
	Leads         *lead.Service
	Contacts      *contact.Service
	Activities    *activity.Service
	Search        repository.SearchRepository
	Notifications *pipeline.NotificationBuffer
	Logger        *slog.Logger
}

// NewServer creates an HTTP router with middleware.
func NewServer(deps Deps, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		coordinator:   deps.Coordinator,
		leads:         deps.Leads,
		contacts:      deps.Contacts,
		activities:    deps.Activities,
		search:        deps.Search,
		notifications: deps.Notifications,
		logger:        logger,
	}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		r.Get("/board", srv.handleBoard)
		r.Get("/board/{collection}", srv.handleBoardCollection)

		r.Post("/drag/start", srv.handleDragStart)
		r.Post("/drag/hover", srv.handleDragHover)
		r.Post("/drag/drop", srv.handleDragDrop)
		r.Post("/drag/cancel", srv.handleDragCancel)

		r.Get("/notifications", srv.handleNotifications)
		r.Get("/activity", srv.handleActivity)
		r.Get("/search", srv.handleSearch)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", srv.handleListLeads)
			r.Post("/", srv.handleCreateLead)
			r.Get("/{id}", srv.handleGetLead)
			r.Patch("/{id}", srv.handleUpdateLead)
			r.Delete("/{id}", srv.handleDeleteLead)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", srv.handleListContacts)
			r.Post("/", srv.handleCreateContact)
			r.Get("/{id}", srv.handleGetContact)
			r.Patch("/{id}", srv.handleUpdateContact)
			r.Delete("/{id}", srv.handleDeleteContact)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type boardView struct {
	Collection pipeline.Collection `json:"collection"`
	Columns    []pipeline.Column   `json:"columns"`
}

func (s *Server) boardView(col pipeline.Collection) (boardView, bool) {
	board, ok := s.coordinator.Board(col)
	if !ok {
		return boardView{}, false
	}
	return boardView{Collection: col, Columns: board.Columns()}, true
}

func (s *Server) handleBoard(w http.ResponseWriter, _ *http.Request) {
	views := make(map[pipeline.Collection]boardView)
	for _, col := range []pipeline.Collection{pipeline.CollectionLeads, pipeline.CollectionContacts} {
		if view, ok := s.boardView(col); ok {
			views[col] = view
		}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleBoardCollection(w http.ResponseWriter, r *http.Request) {
	col, err := pipeline.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	view, ok := s.boardView(col)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown board")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type dragStartRequest struct {
	ItemID string `json:"item_id"`
}

type dragTargetRequest struct {
	ColumnID string `json:"column_id"`
	Index    int    `json:"index"`
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.coordinator.StartDrag(req.ItemID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"dragging": s.coordinator.Dragging()})
}

func (s *Server) handleDragHover(w http.ResponseWriter, r *http.Request) {
	var req dragTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.coordinator.Hover(req.ColumnID, req.Index)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragDrop(w http.ResponseWriter, r *http.Request) {
	var req dragTargetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.coordinator.Drop(r.Context(), req.ColumnID, req.Index); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragCancel(w http.ResponseWriter, _ *http.Request) {
	s.coordinator.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	pending := s.notifications.Drain()
	if pending == nil {
		pending = []pipeline.Notification{}
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	opts := activity.ListOptions{
		Collection: r.URL.Query().Get("collection"),
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = limit
	}

	entries, err := s.activities.Recent(r.Context(), opts)
	if err != nil {
		s.logger.Error("listing activity", "error", err)
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	results, err := s.search.Search(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []repository.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
