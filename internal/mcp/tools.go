package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvollmar/pipeboard/internal/domain/activity"
	"github.com/nvollmar/pipeboard/internal/domain/contact"
	"github.com/nvollmar/pipeboard/internal/domain/lead"
	"github.com/nvollmar/pipeboard/internal/domain/pipeline"
	"github.com/nvollmar/pipeboard/internal/repository"
)

// BoardPayload is one pipeline's column view.
type BoardPayload struct {
	Collection pipeline.Collection `json:"collection" jsonschema:"pipeline collection (leads or contacts)"`
	Columns    []pipeline.Column   `json:"columns" jsonschema:"ordered stage columns with their cards"`
}

type getBoardInput struct {
	Collection string `json:"collection,omitempty" jsonschema:"collection to fetch (leads or contacts); omit for both"`
}

type getBoardResult struct {
	Boards []BoardPayload `json:"boards"`
}

type listLeadsResult struct {
	Leads []lead.Lead `json:"leads"`
}

type listContactsResult struct {
	Contacts []contact.Contact `json:"contacts"`
}

type createLeadInput struct {
	Name    string `json:"name" jsonschema:"lead name (required)"`
	Company string `json:"company,omitempty" jsonschema:"company name"`
	Email   string `json:"email,omitempty" jsonschema:"email address"`
	Phone   string `json:"phone,omitempty" jsonschema:"phone number"`
	Source  string `json:"source,omitempty" jsonschema:"where the lead came from"`
	Status  string `json:"status,omitempty" jsonschema:"initial stage (new, contacted, qualified, converted, lost); defaults to new"`
}

type createContactInput struct {
	Name    string `json:"name" jsonschema:"contact name (required)"`
	Email   string `json:"email,omitempty" jsonschema:"email address"`
	Phone   string `json:"phone,omitempty" jsonschema:"phone number"`
	Company string `json:"company,omitempty" jsonschema:"company name"`
	Role    string `json:"role,omitempty" jsonschema:"role or title"`
	LeadID  string `json:"lead_id,omitempty" jsonschema:"ID of the lead this contact belongs to"`
	Status  string `json:"status,omitempty" jsonschema:"initial stage (prospect, contacted, in_progress, closed); defaults to prospect"`
}

type moveCardInput struct {
	Collection string `json:"collection" jsonschema:"pipeline collection (leads or contacts)"`
	ItemID     string `json:"item_id" jsonschema:"ID of the card to move"`
	Status     string `json:"status" jsonschema:"target stage within the same pipeline"`
}

type moveCardResult struct {
	ItemID string `json:"item_id"`
	Status string `json:"status"`
}

type searchItemsInput struct {
	Query string `json:"query" jsonschema:"search text matched against names, companies and emails"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

type searchItemsResult struct {
	Results []repository.SearchResult `json:"results"`
}

type recentActivityInput struct {
	Collection string `json:"collection,omitempty" jsonschema:"filter by collection (leads or contacts)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

type recentActivityResult struct {
	Entries []activity.Entry `json:"entries"`
}

// refreshBoard reloads a collection's board from its source after a tool
// mutated the underlying data, so the next board read reflects the change.
func refreshBoard(ctx context.Context, svcs Services, logger *slog.Logger, col pipeline.Collection) {
	board, ok := svcs.Coordinator.Board(col)
	if !ok {
		return
	}
	var src pipeline.Source
	switch col {
	case pipeline.CollectionLeads:
		src = svcs.Leads
	case pipeline.CollectionContacts:
		src = svcs.Contacts
	default:
		return
	}
	if err := pipeline.Refresh(ctx, src, board); err != nil {
		logger.Warn("failed to refresh board", "collection", col, "error", err)
	}
}

// registerTools registers all tools on the server.
func registerTools(server *sdkmcp.Server, svcs Services, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	refresh := func(ctx context.Context, col pipeline.Collection) {
		refreshBoard(ctx, svcs, logger, col)
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Get the kanban board columns for one or both pipelines",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input getBoardInput) (*sdkmcp.CallToolResult, getBoardResult, error) {
		collections := []pipeline.Collection{pipeline.CollectionLeads, pipeline.CollectionContacts}
		if input.Collection != "" {
			col, err := pipeline.ParseCollection(input.Collection)
			if err != nil {
				return nil, getBoardResult{}, wrapError(err)
			}
			collections = []pipeline.Collection{col}
		}

		var result getBoardResult
		for _, col := range collections {
			board, ok := svcs.Coordinator.Board(col)
			if !ok {
				continue
			}
			result.Boards = append(result.Boards, BoardPayload{Collection: col, Columns: board.Columns()})
		}
		return nil, result, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_leads",
		Description: "List all leads with their full details",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, listLeadsResult, error) {
		leads, err := svcs.Leads.List(ctx)
		if err != nil {
			return nil, listLeadsResult{}, wrapError(err)
		}
		return nil, listLeadsResult{Leads: leads}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_contacts",
		Description: "List all contacts with their full details",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, listContactsResult, error) {
		contacts, err := svcs.Contacts.List(ctx)
		if err != nil {
			return nil, listContactsResult{}, wrapError(err)
		}
		return nil, listContactsResult{Contacts: contacts}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_lead",
		Description: "Create a new lead on the leads pipeline",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input createLeadInput) (*sdkmcp.CallToolResult, *lead.Lead, error) {
		l, err := svcs.Leads.Create(ctx, lead.CreateRequest{
			Name:    input.Name,
			Company: input.Company,
			Email:   input.Email,
			Phone:   input.Phone,
			Source:  input.Source,
			Status:  pipeline.Status(input.Status),
		})
		if err != nil {
			return nil, nil, wrapError(err)
		}
		refresh(ctx, pipeline.CollectionLeads)
		return nil, l, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_contact",
		Description: "Create a new contact on the contacts pipeline, optionally linked to a lead",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input createContactInput) (*sdkmcp.CallToolResult, *contact.Contact, error) {
		req := contact.CreateRequest{
			Name:    input.Name,
			Email:   input.Email,
			Phone:   input.Phone,
			Company: input.Company,
			Role:    input.Role,
			Status:  pipeline.Status(input.Status),
		}
		if input.LeadID != "" {
			req.LeadID = &input.LeadID
		}
		c, err := svcs.Contacts.Create(ctx, req)
		if err != nil {
			return nil, nil, wrapError(err)
		}
		refresh(ctx, pipeline.CollectionContacts)
		return nil, c, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_card",
		Description: "Move a card to another stage of its own pipeline",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input moveCardInput) (*sdkmcp.CallToolResult, moveCardResult, error) {
		col, err := pipeline.ParseCollection(input.Collection)
		if err != nil {
			return nil, moveCardResult{}, wrapError(err)
		}
		status := pipeline.Status(input.Status)
		if !pipeline.ValidStatus(col, status) {
			return nil, moveCardResult{}, wrapError(pipeline.ErrUnknownStatus)
		}

		switch col {
		case pipeline.CollectionLeads:
			err = svcs.Leads.UpdateStatus(ctx, input.ItemID, status)
		case pipeline.CollectionContacts:
			err = svcs.Contacts.UpdateStatus(ctx, input.ItemID, status)
		}
		if err != nil {
			return nil, moveCardResult{}, wrapError(err)
		}

		refresh(ctx, col)
		return nil, moveCardResult{ItemID: input.ItemID, Status: input.Status}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_items",
		Description: "Full-text search across leads and contacts",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input searchItemsInput) (*sdkmcp.CallToolResult, searchItemsResult, error) {
		if input.Query == "" {
			return nil, searchItemsResult{}, fmt.Errorf("query is required")
		}
		results, err := svcs.Search.Search(ctx, input.Query, input.Limit)
		if err != nil {
			return nil, searchItemsResult{}, wrapError(err)
		}
		return nil, searchItemsResult{Results: results}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "Get recent activity entries, including stage changes and reverted moves",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, input recentActivityInput) (*sdkmcp.CallToolResult, recentActivityResult, error) {
		entries, err := svcs.Activity.Recent(ctx, activity.ListOptions{
			Collection: input.Collection,
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, recentActivityResult{}, wrapError(err)
		}
		return nil, recentActivityResult{Entries: entries}, nil
	})
}
