package cmd

import (
	"fmt"

	"github.com/planwing/planwing/internal/ui"
	"github.com/spf13/cobra"
)

// boardCmd represents the board command
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the live todo board",
	Long: `Open a full-screen board of the current plan.

The board re-reads the data file whenever it changes on disk, so todos
added by an MCP client show up without manual refreshing. Space toggles
the selected todo between pending and done.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return fmt.Errorf("the board needs an interactive terminal")
	}

	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	// Fail fast before entering the alternate screen.
	if _, err := sess.CurrentGoal(); err != nil {
		return requireGoalErr(err)
	}

	load := func() (ui.BoardSnapshot, error) {
		goal, err := sess.CurrentGoal()
		if err != nil {
			return ui.BoardSnapshot{}, err
		}
		plan, err := sess.CurrentPlan()
		if err != nil {
			return ui.BoardSnapshot{}, err
		}
		return ui.BoardSnapshot{Goal: goal, Plan: plan}, nil
	}
	toggle := func(todoID string, isComplete bool) error {
		_, err := sess.UpdateTodoStatus(todoID, isComplete)
		return err
	}

	return ui.RunBoard(load, toggle, GetDataFilePath())
}
