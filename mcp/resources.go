/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package mcp

// Read-only resources: the active goal and its implementation plan

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/planwing/planwing/session"
)

// Resource URIs served by the planning server.
const (
	CurrentGoalURI        = "planning://current-goal"
	ImplementationPlanURI = "planning://implementation-plan"
)

// currentGoalResourceHandler provides the active goal in JSON format
func currentGoalResourceHandler(sess *session.Session) mcpsdk.ResourceHandler {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.ReadResourceParams) (*mcpsdk.ReadResourceResult, error) {
		goal, err := sess.CurrentGoal()
		if err != nil {
			return nil, fmt.Errorf("read current goal: %w", err)
		}

		jsonData, err := json.MarshalIndent(goalToResponse(goal), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal goal to JSON: %w", err)
		}

		logInfo(fmt.Sprintf("Provided current goal resource: %s", goal.ID))

		return &mcpsdk.ReadResourceResult{
			Contents: []*mcpsdk.ResourceContents{
				{
					URI:      params.URI,
					MIMEType: "application/json",
					Text:     string(jsonData),
				},
			},
		}, nil
	}
}

// implementationPlanResourceHandler provides the active plan with its todos
func implementationPlanResourceHandler(sess *session.Session) mcpsdk.ResourceHandler {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.ReadResourceParams) (*mcpsdk.ReadResourceResult, error) {
		plan, err := sess.CurrentPlan()
		if err != nil {
			return nil, fmt.Errorf("read implementation plan: %w", err)
		}

		jsonData, err := json.MarshalIndent(planToResponse(plan), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal plan to JSON: %w", err)
		}

		logInfo(fmt.Sprintf("Provided implementation plan resource with %d todos", len(plan.Todos)))

		return &mcpsdk.ReadResourceResult{
			Contents: []*mcpsdk.ResourceContents{
				{
					URI:      params.URI,
					MIMEType: "application/json",
					Text:     string(jsonData),
				},
			},
		}, nil
	}
}

// RegisterPlanningResources wires up the planning resources.
func RegisterPlanningResources(server *mcpsdk.Server, sess *session.Session) error {
	server.AddResource(&mcpsdk.Resource{
		URI:         CurrentGoalURI,
		Name:        "current-goal",
		Description: "The active planning goal in JSON format",
		MIMEType:    "application/json",
	}, currentGoalResourceHandler(sess))

	server.AddResource(&mcpsdk.Resource{
		URI:         ImplementationPlanURI,
		Name:        "implementation-plan",
		Description: "The active goal's implementation plan with its ordered todos",
		MIMEType:    "application/json",
	}, implementationPlanResourceHandler(sess))

	return nil
}
