package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/planwing/planwing/internal/logger"
	"github.com/planwing/planwing/internal/ui"
	"github.com/planwing/planwing/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var savePlanFile string

// saveCmd represents the save command
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a plan as todos on the current goal",
	Long: `Parse a markdown plan into todos and append them to the current goal's plan.

The plan text is read from --file when given, otherwise from stdin. Every
"# Title" or "## Title" heading opens a todo; lines below it form the
description, a "Complexity: N" line sets the 1-10 score, and the first
fenced code block becomes the todo's code example.`,
	Example: `  planwing save -f plan.md
  cat plan.md | planwing save`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().StringVarP(&savePlanFile, "file", "f", "", "read the plan text from a file instead of stdin")
}

func runSave(cmd *cobra.Command, args []string) error {
	planText, err := readPlanText()
	if err != nil {
		return err
	}
	if strings.TrimSpace(planText) == "" {
		return fmt.Errorf("plan text is empty")
	}
	logger.SetLastInput(planText)

	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	added, err := sess.SavePlan(planText)
	if err != nil {
		return requireGoalErr(err)
	}

	todos, err := sess.Todos()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd, struct {
			Added int        `json:"added"`
			Todos []todoJSON `json:"todos"`
		}{Added: added, Todos: todosToJSON(todos)})
	}

	cmd.Printf("✅ Saved %d %s to the current plan.\n\n", added, utils.Pluralize(added, "todo", "todos"))
	cmd.Print(ui.FormatTodoOverview(todos, isVerbose()))
	return nil
}

// readPlanText reads from --file when set, falling back to stdin. Reading
// stdin on a terminal is rejected so 'planwing save' without a pipe fails
// fast instead of hanging.
func readPlanText() (string, error) {
	if savePlanFile != "" {
		data, err := os.ReadFile(savePlanFile)
		if err != nil {
			return "", fmt.Errorf("read plan file: %w", err)
		}
		return string(data), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no plan input: pass --file or pipe the plan text on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
