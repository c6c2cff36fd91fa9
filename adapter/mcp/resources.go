package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
)

const (
	strategiesURI = "triage://strategies"
	demoTasksURI  = "triage://tasks/demo"
)

// RegisterResources registers read-only reference data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	h, err := newToolHandlers(deps)
	if err != nil {
		return err
	}

	srv.Resource(strategiesURI).
		Name("Strategies").
		Description("Scoring strategies and what each one favors").
		MimeType("application/json").
		Handler(h.strategiesResource)

	srv.Resource(demoTasksURI).
		Name("Demo tasks").
		Description("A sample task batch with due dates relative to today").
		MimeType("application/json").
		Handler(h.demoTasksResource)

	return nil
}

func (h *toolHandlers) strategiesResource(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
	return jsonResource(uri, h.analyzer.Strategies())
}

func (h *toolHandlers) demoTasksResource(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
	return jsonResource(uri, h.analyzer.DemoTasks())
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
