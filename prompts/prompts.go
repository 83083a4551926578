package prompts

// PlanningGuidance is returned by start_planning to steer the client through
// building an implementation plan one step at a time. save_plan understands
// the format this prompt asks for.
const PlanningGuidance = `You are now in planning mode. Work through the goal as a sequence of thoughts before committing to a plan:

1. Restate the goal in your own words and note any constraints.
2. Break the work into concrete, ordered steps. Each step should be small enough to verify on its own.
3. For every step, estimate a complexity score from 1 (trivial) to 10 (very hard).
4. Revisit earlier steps when a later one changes your understanding; reorder or split them as needed.

When the plan is stable, write it as Markdown and save it with save_plan:

## Step title
Complexity: <1-10>
Description of what to do and how to verify it.

` + "```" + `
optional code example for this step
` + "```" + `

Each "##" heading starts a new todo. Steps without a complexity line default to 5. Use add_todo, remove_todo, and update_todo_status to refine the plan as work progresses.`
