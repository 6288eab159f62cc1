package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/repository"
)

const serverInstructions = `Pipeboard tracks sales leads and contacts on two kanban pipelines.
Use get_board to see the current columns, move_card to advance an item to
another stage, and search_items to find leads or contacts by name, company
or email. Leads and contacts have separate stage sets; a card can never
move between the two pipelines.`

// LeadService defines lead operations needed by MCP.
type LeadService interface {
	Create(ctx context.Context, req lead.CreateRequest) (*lead.Lead, error)
	List(ctx context.Context) ([]lead.Lead, error)
	UpdateStatus(ctx context.Context, id string, status pipeline.Status) error
	Items(ctx context.Context) ([]pipeline.Item, error)
}

// ContactService defines contact operations needed by MCP.
type ContactService interface {
	Create(ctx context.Context, req contact.CreateRequest) (*contact.Contact, error)
	List(ctx context.Context) ([]contact.Contact, error)
	UpdateStatus(ctx context.Context, id string, status pipeline.Status) error
	Items(ctx context.Context) ([]pipeline.Item, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// SearchService defines search operations needed by MCP.
type SearchService interface {
	Search(ctx context.Context, query string, limit int) ([]repository.SearchResult, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Coordinator *pipeline.Coordinator
	Leads       LeadService
	Contacts    ContactService
	Activity    ActivityService
	Search      SearchService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      KeyResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "pipeboard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode is local dev only: auth never applies there.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}
