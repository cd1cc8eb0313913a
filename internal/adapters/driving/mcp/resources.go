package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for hsarchive resources.
	uriScheme = "hsarchive://"

	// historyLimit is how many runs the runs resource lists.
	historyLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Every archived conversation in the lookup index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent sync runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "companies/{company}/records",
		Name:        "company-records",
		Description: "Archived conversations of one company",
		MIMEType:    "application/json",
	}, s.handleCompanyResource)
}

// handleIndexResource returns the whole index.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.Index.Find(ctx, domain.IndexFilter{})
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	return jsonResource(req.Params.URI, recordEntries(entries))
}

// handleRunsResource returns recent sync runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type runInfo struct {
		RunID      string    `json:"run_id"`
		Strategy   string    `json:"strategy"`
		StartedAt  time.Time `json:"started_at"`
		FinishedAt time.Time `json:"finished_at"`
		Outcome    string    `json:"outcome"`
		StopReason string    `json:"stop_reason,omitempty"`
		EndCursor  string    `json:"end_cursor,omitempty"`
		Pages      int       `json:"pages"`
		Records    int       `json:"records"`
		Skipped    int       `json:"skipped"`
		Error      string    `json:"error,omitempty"`
	}

	infos := []runInfo{}
	if s.ports.Sync != nil {
		runs, err := s.ports.Sync.History(ctx, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		for i := range runs {
			r := &runs[i]
			infos = append(infos, runInfo{
				RunID:      r.RunID,
				Strategy:   string(r.Strategy),
				StartedAt:  r.StartedAt,
				FinishedAt: r.FinishedAt,
				Outcome:    string(r.Outcome),
				StopReason: string(r.StopReason),
				EndCursor:  r.EndCursor,
				Pages:      r.Pages,
				Records:    r.Records,
				Skipped:    r.Skipped,
				Error:      r.Error,
			})
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleCompanyResource returns the records of one company.
func (s *Server) handleCompanyResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	company := extractCompany(req.Params.URI)
	if company == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.ports.Index.Find(ctx, domain.IndexFilter{Company: company})
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	if len(entries) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, recordEntries(entries))
}

func recordEntries(entries []domain.IndexEntry) []RecordEntry {
	out := make([]RecordEntry, len(entries))
	for i, e := range entries {
		out[i] = toRecordEntry(e)
	}
	return out
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCompany extracts the company from a URI like hsarchive://companies/{company}/records.
func extractCompany(uri string) string {
	const prefix = uriScheme + "companies/"
	const suffix = "/records"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	company := strings.TrimSuffix(uri, suffix)
	if strings.Contains(company, "/") {
		return ""
	}
	return company
}
