package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
)

// RegisterPrompts registers prompts for common triage workflows.
func RegisterPrompts(srv *mcp.Server) error {
	if srv == nil {
		return errors.New("server is required")
	}

	srv.Prompt("prioritize_tasks").
		Description("Turn a loose list of to-dos into a ranked plan using the tasks.* tools.").
		Argument("strategy", "smart_balance, fastest_wins, high_impact or deadline_driven", false).
		Handler(prioritizePrompt)

	return nil
}

func prioritizePrompt(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
	strategy, ok := domain.ParseStrategy(args["strategy"])
	if !ok {
		strategy = domain.SmartBalance
	}

	return &mcp.PromptResult{
		Description: "Task Prioritization",
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Help me decide what to work on. Please:

1. Turn my list into tasks with a title, a due_date (YYYY-MM-DD), an importance from 1 to 10 and estimated_hours.
2. Give every task an id and list the ids it depends on under dependencies.
3. Call tasks.analyze with strategy %q (%s).
4. If the result carries warnings, explain each circular dependency and how to break it.
5. Call tasks.suggest and walk me through the top picks and why.

Keep the answer short and actionable.`, strategy.Name(), strategy.Description()),
				},
			},
		},
	}, nil
}
