package cmd

import (
	"errors"
	"fmt"

	"github.com/planwing/planwing/internal/planutil"
	"github.com/planwing/planwing/internal/ui"
	"github.com/planwing/planwing/internal/utils"
	"github.com/planwing/planwing/types"
	"github.com/spf13/cobra"
)

// goalCmd represents the goal command
var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show or switch the current goal",
	Long: `Show the goal of the current planning session with its plan progress.

Subcommands switch the session to another goal or clear it.`,
	Example: `  planwing goal
  planwing goal set 7f3a21c9-44d0-4c6e-9a1b-2f8e5d6c7b8a
  planwing goal clear`,
	Args: cobra.NoArgs,
	RunE: runGoalShow,
}

var goalSetCmd = &cobra.Command{
	Use:   "set <goal_id>",
	Short: "Switch the session to an existing goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, closeStore, err := openSession()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := sess.SetCurrentGoal(args[0]); err != nil {
			return fmt.Errorf("could not switch goal: %w", err)
		}
		if err := SetCurrentGoal(args[0]); err != nil {
			return fmt.Errorf("failed to persist current goal: %w", err)
		}

		goal, err := sess.CurrentGoal()
		if err != nil {
			return err
		}
		cmd.Printf("🎯 Current goal set to '%s' (ID: %s)\n",
			utils.Truncate(goal.Description, 60), planutil.ShortID(goal.ID, 0))
		return nil
	},
}

var goalClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current goal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if GetCurrentGoal() == "" {
			cmd.Println("No current goal is set.")
			return nil
		}
		if err := ClearCurrentGoal(); err != nil {
			return fmt.Errorf("failed to clear current goal: %w", err)
		}
		cmd.Println("Current goal cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalSetCmd)
	goalCmd.AddCommand(goalClearCmd)
}

func runGoalShow(cmd *cobra.Command, args []string) error {
	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	goal, err := sess.CurrentGoal()
	if err != nil {
		if errors.Is(err, types.ErrPrecondition) {
			cmd.Println("No active planning session.")
			cmd.Println("Start one with: planwing start \"Your goal\"")
			return nil
		}
		return err
	}
	plan, err := sess.CurrentPlan()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd, struct {
			Goal  goalJSON   `json:"goal"`
			Todos []todoJSON `json:"todos"`
		}{Goal: goalToJSON(goal), Todos: todosToJSON(plan.Todos)})
	}

	cmd.Println(ui.FormatGoalSummary(goal, plan))
	return nil
}
