/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/planwing/planwing/internal/logger"
	"github.com/planwing/planwing/internal/planutil"
	"github.com/planwing/planwing/models"
	"github.com/spf13/cobra"
)

var (
	addDescription string
	addComplexity  int
	addCodeExample string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a todo to the current plan",
	Long: `Append a single todo to the current goal's plan.

The title comes from the arguments. The description defaults to the title
when not given; complexity is a 1-10 estimate of implementation effort.`,
	Example: `  planwing add "Define invoice schema" -d "Tables and indexes for invoices" -x 4
  planwing add "Wire payment webhook" --code 'http.HandleFunc("/hook", handler)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "todo description (defaults to the title)")
	addCmd.Flags().IntVarP(&addComplexity, "complexity", "x", 5, "complexity score from 1 to 10")
	addCmd.Flags().StringVar(&addCodeExample, "code", "", "optional code example attached to the todo")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("todo title cannot be empty")
	}
	logger.SetLastInput(title)

	description := addDescription
	if description == "" {
		description = title
	}

	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	todo, err := sess.AddTodo(models.TodoFields{
		Title:       title,
		Description: description,
		Complexity:  addComplexity,
		CodeExample: addCodeExample,
	})
	if err != nil {
		return requireGoalErr(err)
	}

	if isJSON() {
		return printJSON(cmd, todoToJSON(todo))
	}

	cmd.Printf("✅ Todo '%s' (ID: %s) added.\n", todo.Title, planutil.ShortID(todo.ID, 0))
	return nil
}
