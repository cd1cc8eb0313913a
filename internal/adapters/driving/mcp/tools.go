package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// defaultFindLimit caps find_records results when no limit is given.
const defaultFindLimit = 50

// LookupInput is the input schema for the lookup_record tool.
type LookupInput struct {
	ID string `json:"id" jsonschema:"the conversation ID to look up"`
}

// LookupOutput is the output schema for the lookup_record tool.
type LookupOutput struct {
	Found  bool         `json:"found"`
	Record *RecordEntry `json:"record,omitempty"`
}

// FindInput is the input schema for the find_records tool.
type FindInput struct {
	Company  string `json:"company,omitempty" jsonschema:"exact partition key, e.g. Acme_Inc"`
	Tag      string `json:"tag,omitempty" jsonschema:"a tag the conversation must carry"`
	Customer string `json:"customer,omitempty" jsonschema:"exact customer email"`
	Status   string `json:"status,omitempty" jsonschema:"conversation status, e.g. active or closed"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 50)"`
}

// FindOutput is the output schema for the find_records tool.
type FindOutput struct {
	Records []RecordEntry `json:"records"`
	Count   int           `json:"count"`
	Total   int           `json:"total"`
}

// RecordEntry is one index entry.
type RecordEntry struct {
	ID       string   `json:"id"`
	Subject  string   `json:"subject"`
	Company  string   `json:"company"`
	Tags     []string `json:"tags"`
	Customer string   `json:"customer"`
	Status   string   `json:"status"`
	Path     string   `json:"path"`
}

func toRecordEntry(e domain.IndexEntry) RecordEntry {
	return RecordEntry(e)
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_record",
		Description: "Look up an archived conversation by ID",
	}, s.handleLookup)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_records",
		Description: "Find archived conversations by company, tag, customer or status",
	}, s.handleFind)
}

// handleLookup handles the lookup_record tool invocation.
func (s *Server) handleLookup(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupInput,
) (*mcp.CallToolResult, LookupOutput, error) {
	entry, err := s.ports.Index.Lookup(ctx, input.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, LookupOutput{Found: false}, nil
	}
	if err != nil {
		return nil, LookupOutput{}, err
	}

	rec := toRecordEntry(*entry)
	return nil, LookupOutput{Found: true, Record: &rec}, nil
}

// handleFind handles the find_records tool invocation.
func (s *Server) handleFind(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindInput,
) (*mcp.CallToolResult, FindOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}

	entries, err := s.ports.Index.Find(ctx, domain.IndexFilter{
		Company:  input.Company,
		Tag:      input.Tag,
		Customer: input.Customer,
		Status:   input.Status,
	})
	if err != nil {
		return nil, FindOutput{}, err
	}

	output := FindOutput{
		Records: make([]RecordEntry, 0, min(limit, len(entries))),
		Total:   len(entries),
	}
	for _, e := range entries[:min(limit, len(entries))] {
		output.Records = append(output.Records, toRecordEntry(e))
	}
	output.Count = len(output.Records)

	return nil, output, nil
}
