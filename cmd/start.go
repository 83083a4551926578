/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/planwing/planwing/internal/logger"
	"github.com/planwing/planwing/internal/ui"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [goal description]",
	Short: "Start a planning session for a goal",
	Long: `Start a new planning session. The goal describes what you want to build;
todos added afterwards belong to this goal's plan.

The goal becomes the current one for every other command until you start
another session or switch with 'planwing goal set'.`,
	Example: `  # Describe the goal inline
  planwing start "Build a REST API for user management"

  # Or get prompted interactively
  planwing start`,
	Args: cobra.ArbitraryArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		if !ui.IsInteractive() {
			return fmt.Errorf("goal description required: planwing start \"Your goal\"")
		}
		ui.RenderPageHeader("PlanWing Start", "Describe the goal to plan")
		entered, err := ui.PromptGoal()
		if err != nil {
			return err
		}
		description = strings.TrimSpace(entered)
		if description == "" {
			return fmt.Errorf("goal description cannot be empty")
		}
	}
	logger.SetLastInput(description)

	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	goal, guidance, err := sess.StartPlanning(description)
	if err != nil {
		return fmt.Errorf("start planning: %w", err)
	}

	if err := SetCurrentGoal(goal.ID); err != nil {
		PrintError("Warning: could not persist the current goal to config.", err)
	}

	plan, err := sess.CurrentPlan()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd, struct {
			Goal     goalJSON `json:"goal"`
			Guidance string   `json:"guidance"`
		}{Goal: goalToJSON(goal), Guidance: guidance})
	}

	cmd.Println(ui.FormatGoalSummary(goal, plan))
	cmd.Println(ui.RenderInfoPanel("📝 Planning Guidance", guidance))

	cmd.Printf("\n💡 What's next?\n")
	cmd.Printf("   • Save a plan:     planwing save -f plan.md\n")
	cmd.Printf("   • Add a todo:      planwing add \"First implementation step\"\n")
	cmd.Printf("   • Watch the board: planwing board\n")
	return nil
}
