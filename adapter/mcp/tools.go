// Package mcp exposes the ranking engine as MCP tools, resources and prompts.
package mcp

import (
	"errors"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	Analyzer *application.Analyzer
	Health   *observability.HealthRegistry
	Metrics  observability.Metrics
	Logger   *slog.Logger
}

// RegisterTools registers the task ranking tools.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	h, err := newToolHandlers(deps)
	if err != nil {
		return err
	}

	srv.Tool("tasks.analyze").
		Description("Rank a batch of tasks by priority score. Each task may carry id, title, due_date, importance (1-10), estimated_hours and dependencies. Strategy is smart_balance, fastest_wins, high_impact or deadline_driven.").
		Handler(h.analyze)

	srv.Tool("tasks.suggest").
		Description("Suggest the top tasks to work on next, each with the reasons it was picked. Set demo to use a built-in sample batch.").
		Handler(h.suggest)

	srv.Tool("tasks.cycles").
		Description("Report circular dependencies in a batch of tasks").
		Handler(h.cycles)

	srv.Tool("strategies.list").
		Description("List the scoring strategies").
		Handler(h.strategies)

	srv.Tool("engine.health").
		Description("Report ranking engine and cache health").
		Handler(h.health)

	return nil
}
