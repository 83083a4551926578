package ui

import (
	"fmt"
	"strings"

	"github.com/planwing/planwing/internal/utils"
	"github.com/planwing/planwing/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// StatusLabel returns the display label for a completion state.
func StatusLabel(isComplete bool) string {
	if isComplete {
		return "done"
	}
	return "pending"
}

// StatusHeading returns the title-cased section heading for a status label.
func StatusHeading(label string) string {
	return titleCaser.String(label)
}

// StatusIcon returns a styled marker for a todo's completion state.
func StatusIcon(isComplete bool) string {
	if isComplete {
		return StyleSuccess.Render("✓")
	}
	return StyleSubtle.Render("○")
}

// ComplexityBadge returns a bracketed complexity score colored by band:
// green for 1-3, yellow for 4-6, red for 7-10.
func ComplexityBadge(complexity int) string {
	badge := fmt.Sprintf("[%d]", complexity)
	switch {
	case complexity <= 3:
		return StyleSuccess.Render(badge)
	case complexity <= 6:
		return StyleWarning.Render(badge)
	default:
		return StyleError.Render(badge)
	}
}

// FormatTodoList returns the todos grouped into Pending and Done sections.
func FormatTodoList(todos []models.Todo) string {
	var sb strings.Builder

	pending, done := splitByStatus(todos)

	writeSection := func(heading string, group []models.Todo) {
		if len(group) == 0 {
			return
		}
		sb.WriteString(StyleHeader.Render(fmt.Sprintf("%s (%d)", StatusHeading(heading), len(group))) + "\n")
		for _, todo := range group {
			sb.WriteString(fmt.Sprintf(" %s %s %s\n",
				StatusIcon(todo.IsComplete),
				ComplexityBadge(todo.Complexity),
				StyleTitle.Render(Truncate(todo.Title, 70))))
		}
		sb.WriteString("\n")
	}

	writeSection("pending", pending)
	writeSection("done", done)

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatTodoTable returns the todos as a table with full metadata.
func FormatTodoTable(todos []models.Todo) string {
	table := NewTable("ID", "Title", "Complexity", "Status", "Updated")
	table.MaxWidth = 45
	for _, todo := range todos {
		table.AddRow(
			TruncateID(todo.ID),
			todo.Title,
			fmt.Sprintf("%d", todo.Complexity),
			StatusLabel(todo.IsComplete),
			todo.UpdatedAt.Local().Format("Jan 02 15:04"),
		)
	}
	return table.Render()
}

// FormatTodoOverview returns the plan header followed by the todos. Verbose
// mode switches from the grouped list to a table with IDs and timestamps.
func FormatTodoOverview(todos []models.Todo, verbose bool) string {
	pending, done := splitByStatus(todos)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" 📋 Plan: %d %s (%s pending • %s done)\n",
		len(todos),
		utils.Pluralize(len(todos), "todo", "todos"),
		StyleWarning.Render(fmt.Sprintf("%d", len(pending))),
		StyleSuccess.Render(fmt.Sprintf("%d", len(done)))))
	sb.WriteString(StyleSubtle.Render(strings.Repeat("─", 50)) + "\n")

	if len(todos) == 0 {
		sb.WriteString(StyleSubtle.Render(" No todos yet. Save a plan or add todos to get started.") + "\n")
		return sb.String()
	}

	if verbose {
		sb.WriteString(FormatTodoTable(todos))
	} else {
		sb.WriteString(FormatTodoList(todos))
	}
	return sb.String()
}

// FormatGoalSummary returns a panel describing the active goal and the
// state of its plan.
func FormatGoalSummary(goal models.Goal, plan models.Plan) string {
	pending, done := splitByStatus(plan.Todos)

	detail := fmt.Sprintf("%s\n\n%s",
		WrapText(goal.Description, 70),
		StyleSubtle.Render(fmt.Sprintf("Started %s • %d pending • %d done",
			goal.CreatedAt.Local().Format("Jan 02 15:04"), len(pending), len(done))))

	return RenderPanel("🎯 Current Goal", detail)
}

func splitByStatus(todos []models.Todo) (pending, done []models.Todo) {
	for _, todo := range todos {
		if todo.IsComplete {
			done = append(done, todo)
		} else {
			pending = append(pending, todo)
		}
	}
	return pending, done
}
