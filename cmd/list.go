/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"

	"github.com/planwing/planwing/internal/ui"
	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/types"
	"github.com/spf13/cobra"
)

var listAll bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos on the current plan",
	Long: `List the current goal's todos in plan order.

Pending todos are shown by default; --all includes completed ones.
With --verbose the list becomes a table with IDs and timestamps.`,
	Example: `  planwing list
  planwing list --all
  planwing list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include completed todos")
}

func runList(cmd *cobra.Command, args []string) error {
	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	todos, err := sess.Todos()
	if err != nil {
		if errors.Is(err, types.ErrPrecondition) {
			cmd.Println("No active planning session.")
			cmd.Println("Start one with: planwing start \"Your goal\"")
			return nil
		}
		return err
	}

	shown := todos
	hiddenDone := 0
	if !listAll {
		shown = []models.Todo{}
		for _, t := range todos {
			if t.IsComplete {
				hiddenDone++
				continue
			}
			shown = append(shown, t)
		}
	}

	if isJSON() {
		return printJSON(cmd, todosToJSON(shown))
	}

	cmd.Print(ui.FormatTodoOverview(shown, isVerbose()))
	if hiddenDone > 0 {
		cmd.Printf("\n%d completed hidden. Show all with --all.\n", hiddenDone)
	}
	return nil
}
