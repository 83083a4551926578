/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planwing/planwing/prompts"
	"github.com/planwing/planwing/session"
)

// planGoalPromptHandler builds a planning prompt for a software goal
func planGoalPromptHandler() func(context.Context, *mcpsdk.ServerSession, *mcpsdk.GetPromptParams) (*mcpsdk.GetPromptResult, error) {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.GetPromptParams) (*mcpsdk.GetPromptResult, error) {
		goal := params.Arguments["goal"]
		if strings.TrimSpace(goal) == "" {
			return nil, fmt.Errorf("goal argument is required")
		}

		prompt := fmt.Sprintf(`You are planning the implementation of a software goal.

Goal: %s

First call the start_planning tool with this goal to open a session, then
follow the methodology below to draft the plan. When the plan is ready,
submit it with the save_plan tool.

%s`, goal, prompts.PlanningGuidance)

		logInfo("Generated plan-goal prompt")

		return &mcpsdk.GetPromptResult{
			Description: fmt.Sprintf("Plan the goal: %s", goal),
			Messages: []*mcpsdk.PromptMessage{
				{
					Role: "user",
					Content: &mcpsdk.TextContent{
						Text: prompt,
					},
				},
			},
		}, nil
	}
}

// reviewPlanPromptHandler builds a review prompt over the current plan's todos
func reviewPlanPromptHandler(sess *session.Session) func(context.Context, *mcpsdk.ServerSession, *mcpsdk.GetPromptParams) (*mcpsdk.GetPromptResult, error) {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.GetPromptParams) (*mcpsdk.GetPromptResult, error) {
		goal, err := sess.CurrentGoal()
		if err != nil {
			return nil, fmt.Errorf("no plan to review: %w", err)
		}
		todos, err := sess.Todos()
		if err != nil {
			return nil, fmt.Errorf("failed to read todos: %w", err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Review the implementation plan for this goal.\n\nGoal: %s\n\n", goal.Description)
		if len(todos) == 0 {
			sb.WriteString("The plan has no todos yet.\n")
		} else {
			fmt.Fprintf(&sb, "Current todos (%d):\n", len(todos))
			for i, todo := range todos {
				state := "pending"
				if todo.IsComplete {
					state = "done"
				}
				fmt.Fprintf(&sb, "%d. [%s] %s (complexity %d, ID: %s)\n", i+1, state, todo.Title, todo.Complexity, todo.ID)
			}
		}
		sb.WriteString(`
Check the plan for missing steps, steps that should be split, and steps that
are no longer needed. Apply the changes with the add_todo, remove_todo, and
update_todo_status tools.`)

		logInfo(fmt.Sprintf("Generated review-plan prompt with %d todos", len(todos)))

		return &mcpsdk.GetPromptResult{
			Description: fmt.Sprintf("Review the plan for: %s", goal.Description),
			Messages: []*mcpsdk.PromptMessage{
				{
					Role: "user",
					Content: &mcpsdk.TextContent{
						Text: sb.String(),
					},
				},
			},
		}, nil
	}
}

// RegisterPlanningPrompts wires up the planning prompts.
func RegisterPlanningPrompts(server *mcpsdk.Server, sess *session.Session) error {
	server.AddPrompt(&mcpsdk.Prompt{
		Name:        "plan-goal",
		Description: "Draft an implementation plan for a software goal using the planning tools",
		Arguments: []*mcpsdk.PromptArgument{
			{
				Name:        "goal",
				Description: "The software development goal to plan",
				Required:    true,
			},
		},
	}, planGoalPromptHandler())

	server.AddPrompt(&mcpsdk.Prompt{
		Name:        "review-plan",
		Description: "Review the current implementation plan for gaps and stale steps",
	}, reviewPlanPromptHandler(sess))

	return nil
}
