package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/planwing/planwing/internal/planutil"
	"github.com/planwing/planwing/models"
	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done [todo_id]",
	Aliases: []string{"finish", "complete", "d"},
	Short:   "Mark a todo as done",
	Long:    `Mark a todo as completed. With a todo_id (full ID or unique prefix) it updates that todo directly. Otherwise, it presents an interactive list to choose from.`,
	Example: `  # Interactive mode
  planwing done

  # Complete a specific todo by ID prefix
  planwing done 7f3a21c9

  # Using alias
  planwing d 7f3a21c9`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	todos, err := sess.Todos()
	if err != nil {
		return requireGoalErr(err)
	}

	var target models.Todo
	if len(args) > 0 {
		todoID, err := planutil.ResolveTodoID(todos, args[0])
		if err != nil {
			return fmt.Errorf("could not find todo %q: %w", args[0], err)
		}
		target, _ = findTodo(todos, todoID)
	} else {
		// Filter for todos that are not yet completed.
		pendingOnly := func(t models.Todo) bool {
			return !t.IsComplete
		}
		target, err = selectTodoInteractive(todos, pendingOnly, "Select todo to mark as done")
		if err != nil {
			if err == promptui.ErrInterrupt {
				cmd.Println("Operation cancelled.")
				return nil
			}
			if errors.Is(err, ErrNoTodosFound) {
				cmd.Println("No pending todos left. 🎉")
				return nil
			}
			return fmt.Errorf("could not select a todo: %w", err)
		}
	}

	if target.IsComplete {
		cmd.Printf("Todo '%s' (ID: %s) is already completed.\n", target.Title, planutil.ShortID(target.ID, 0))
		return nil
	}

	updated, err := sess.UpdateTodoStatus(target.ID, true)
	if err != nil {
		return fmt.Errorf("failed to mark todo '%s' as done: %w", target.Title, err)
	}

	if isJSON() {
		return printJSON(cmd, todoToJSON(updated))
	}

	cmd.Printf("🎉 Todo '%s' (ID: %s) marked as done!\n", updated.Title, planutil.ShortID(updated.ID, 0))

	remaining := 0
	for _, t := range todos {
		if !t.IsComplete && t.ID != updated.ID {
			remaining++
		}
	}
	if remaining == 0 {
		cmd.Println("\nAll todos complete. Plan finished! 🏁")
	} else {
		// Command discovery hints
		cmd.Printf("\n💡 What's next?\n")
		cmd.Printf("   • View the plan:   planwing list\n")
		cmd.Printf("   • Watch the board: planwing board\n")
	}
	return nil
}
