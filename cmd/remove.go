package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/planwing/planwing/internal/planutil"
	"github.com/planwing/planwing/models"
	"github.com/spf13/cobra"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove [todo_id]",
	Aliases: []string{"rm"},
	Short:   "Remove a todo from the current plan",
	Long:    `Remove a todo from the current goal's plan. With a todo_id (full ID or unique prefix) it removes that todo directly. Otherwise, it presents an interactive list and asks for confirmation.`,
	Example: `  # Interactive mode with confirmation
  planwing remove

  # Remove a specific todo by ID prefix
  planwing rm 7f3a21c9`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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
	interactive := len(args) == 0
	if !interactive {
		todoID, err := planutil.ResolveTodoID(todos, args[0])
		if err != nil {
			return fmt.Errorf("could not find todo %q: %w", args[0], err)
		}
		target, _ = findTodo(todos, todoID)
	} else {
		target, err = selectTodoInteractive(todos, nil, "Select todo to remove")
		if err != nil {
			if err == promptui.ErrInterrupt {
				cmd.Println("Operation cancelled.")
				return nil
			}
			if errors.Is(err, ErrNoTodosFound) {
				cmd.Println("The plan has no todos to remove.")
				return nil
			}
			return fmt.Errorf("could not select a todo: %w", err)
		}
		if !confirmProceed(fmt.Sprintf("Remove todo '%s'", target.Title)) {
			return nil
		}
	}

	if err := sess.RemoveTodo(target.ID); err != nil {
		return fmt.Errorf("failed to remove todo '%s': %w", target.Title, err)
	}

	if isJSON() {
		return printJSON(cmd, struct {
			Removed todoJSON `json:"removed"`
		}{Removed: todoToJSON(target)})
	}

	cmd.Printf("🗑️  Todo '%s' (ID: %s) removed.\n", target.Title, planutil.ShortID(target.ID, 0))
	return nil
}
