package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/planwing/planwing/internal/planutil"
	"github.com/planwing/planwing/internal/ui"
	"github.com/planwing/planwing/internal/utils"
	"github.com/planwing/planwing/models"
	"github.com/planwing/planwing/prompts"
	"github.com/planwing/planwing/session"
	"github.com/planwing/planwing/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(cmd *cobra.Command, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(output))
	return nil
}

// openSession initializes the store and restores the persisted current goal
// onto a fresh session. The returned closer releases store resources.
func openSession() (*session.Session, func(), error) {
	planningStore, err := GetStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize the planning store: %w", err)
	}
	closer := func() {
		if err := planningStore.Close(); err != nil {
			LogError("failed to close planning store", err)
		}
	}

	sess := session.NewWithGuidance(planningStore, loadPlanningGuidance())
	if goalID := GetCurrentGoal(); goalID != "" {
		if err := sess.SetCurrentGoal(goalID); err != nil {
			// A stale goal id in config must not brick every command.
			LogError("stored current goal not found, clearing it", err)
			if clearErr := ClearCurrentGoal(); clearErr != nil {
				LogError("failed to clear current goal", clearErr)
			}
		}
	}
	return sess, closer, nil
}

// loadPlanningGuidance returns the planning guidance text, honoring a
// project override under the templates directory.
func loadPlanningGuidance() string {
	cfg := GetConfig()
	templatesDir := filepath.Join(cfg.Project.RootDir, cfg.Project.TemplatesDir)
	text, err := prompts.GetPrompt(prompts.KeyPlanningGuidance, templatesDir)
	if err != nil {
		LogError("failed to load planning guidance, using built-in", err)
		return prompts.PlanningGuidance
	}
	return text
}

// requireGoalErr rewrites missing-goal preconditions into a hint that names
// the command to run first.
func requireGoalErr(err error) error {
	if errors.Is(err, types.ErrPrecondition) {
		return fmt.Errorf("no active planning session. Start one with: planwing start \"Your goal\"")
	}
	return err
}

// findTodo returns the todo with the given ID from the slice.
func findTodo(todos []models.Todo, todoID string) (models.Todo, bool) {
	for _, t := range todos {
		if t.ID == todoID {
			return t, true
		}
	}
	return models.Todo{}, false
}

// todoChoice flattens a todo for promptui templates, which cannot call
// functions on the item.
type todoChoice struct {
	ID          string
	ShortID     string
	Title       string
	Status      string
	Complexity  int
	Description string
}

// selectTodoInteractive presents a prompt to the user to select a todo from a
// list. It can be narrowed using the provided filter function.
func selectTodoInteractive(todos []models.Todo, filterFn func(models.Todo) bool, label string) (models.Todo, error) {
	var filtered []models.Todo
	for _, t := range todos {
		if filterFn == nil || filterFn(t) {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return models.Todo{}, ErrNoTodosFound
	}

	choices := make([]todoChoice, len(filtered))
	for i, t := range filtered {
		choices[i] = todoChoice{
			ID:          t.ID,
			ShortID:     planutil.ShortID(t.ID, 0),
			Title:       t.Title,
			Status:      ui.StatusLabel(t.IsComplete),
			Complexity:  t.Complexity,
			Description: utils.Truncate(t.Description, 120),
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} (ID: {{ .ShortID }}, Status: {{ .Status }})`,
		Inactive: `  {{ .Title | faint }} (ID: {{ .ShortID }}, Status: {{ .Status }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }} (ID: {{ .ShortID }})`,
		Details: `
--------- Todo Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Title:\t" | faint }} {{ .Title }}
{{ "Description:\t" | faint }} {{ .Description }}
{{ "Status:\t" | faint }} {{ .Status }}
{{ "Complexity:\t" | faint }} {{ .Complexity }}`,
	}

	searcher := func(input string, index int) bool {
		choice := choices[index]
		name := strings.ToLower(choice.Title)
		input = strings.ToLower(input)
		return strings.Contains(name, input) || strings.Contains(choice.ID, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     choices,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Todo{}, err // includes promptui.ErrInterrupt
	}

	return filtered[i], nil
}

// confirmProceed asks a yes/no question and reports whether the user agreed.
func confirmProceed(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		fmt.Println("Operation cancelled.")
		return false
	}
	return true
}
