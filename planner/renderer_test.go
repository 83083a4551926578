package planner

import (
	"strings"
	"testing"

	"github.com/planwing/planwing/models"
)

func TestRenderPlan_TwoSteps(t *testing.T) {
	plan := "## Step 1\nDo X\n```code```\n## Step 2\nDo Y"

	drafts := RenderPlan(plan)
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d: %+v", len(drafts), drafts)
	}

	first := drafts[0]
	if first.Title != "Step 1" {
		t.Errorf("first title = %q, want %q", first.Title, "Step 1")
	}
	if first.Description != "Do X" {
		t.Errorf("first description = %q, want %q", first.Description, "Do X")
	}
	if first.Complexity != DefaultComplexity {
		t.Errorf("first complexity = %d, want default %d", first.Complexity, DefaultComplexity)
	}
	if first.CodeExample != "code" {
		t.Errorf("first code example = %q, want %q", first.CodeExample, "code")
	}

	second := drafts[1]
	if second.Title != "Step 2" {
		t.Errorf("second title = %q, want %q", second.Title, "Step 2")
	}
	if second.Description != "Do Y" {
		t.Errorf("second description = %q, want %q", second.Description, "Do Y")
	}
	if second.CodeExample != "" {
		t.Errorf("second code example = %q, want empty", second.CodeExample)
	}
}

func TestRenderPlan_Complexity(t *testing.T) {
	tests := []struct {
		name string
		plan string
		want int
	}{
		{"plain annotation", "## A\nbody\nComplexity: 8", 8},
		{"lowercase", "## A\nbody\ncomplexity: 2", 2},
		{"bold markers", "## A\nbody\n**Complexity:** 7", 7},
		{"list marker", "## A\nbody\n- Complexity: 9", 9},
		{"absent uses default", "## A\nbody", DefaultComplexity},
		{"unparseable uses default", "## A\nbody\nComplexity: hard", DefaultComplexity},
		{"clamped high", "## A\nbody\nComplexity: 99", models.MaxComplexity},
		{"clamped low", "## A\nbody\nComplexity: 0", models.MinComplexity},
		{"first annotation wins", "## A\nbody\nComplexity: 4\nComplexity: 9", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := RenderPlan(tt.plan)
			if len(drafts) != 1 {
				t.Fatalf("expected 1 draft, got %d", len(drafts))
			}
			if drafts[0].Complexity != tt.want {
				t.Errorf("complexity = %d, want %d", drafts[0].Complexity, tt.want)
			}
		})
	}
}

func TestRenderPlan_Segments(t *testing.T) {
	tests := []struct {
		name       string
		plan       string
		wantTitles []string
	}{
		{
			name:       "preamble ignored",
			plan:       "Intro text with no heading\nstill intro\n## Real step\nDo it",
			wantTitles: []string{"Real step"},
		},
		{
			name:       "level one heading opens a draft",
			plan:       "# Big step\nDo the thing",
			wantTitles: []string{"Big step"},
		},
		{
			name:       "level three heading stays in description",
			plan:       "## Step\nFirst\n### Detail\nSecond",
			wantTitles: []string{"Step"},
		},
		{
			name:       "heading without body is skipped",
			plan:       "## Lonely heading\n## Working step\nHas a body",
			wantTitles: []string{"Working step"},
		},
		{
			name:       "no headings yields nothing",
			plan:       "just\nplain\ntext",
			wantTitles: []string{},
		},
		{
			name:       "empty input yields nothing",
			plan:       "",
			wantTitles: []string{},
		},
		{
			name:       "crlf input",
			plan:       "## Windows step\r\nDo W\r\n## Next\r\nDo N\r\n",
			wantTitles: []string{"Windows step", "Next"},
		},
		{
			name:       "malformed trailing text adds nothing",
			plan:       "## Step\nBody\n####\n```",
			wantTitles: []string{"Step"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := RenderPlan(tt.plan)
			if drafts == nil {
				t.Fatal("RenderPlan returned nil, want empty slice")
			}
			if len(drafts) != len(tt.wantTitles) {
				t.Fatalf("expected %d drafts, got %d: %+v", len(tt.wantTitles), len(drafts), drafts)
			}
			for i, want := range tt.wantTitles {
				if drafts[i].Title != want {
					t.Errorf("draft %d title = %q, want %q", i, drafts[i].Title, want)
				}
			}
		})
	}
}

func TestRenderPlan_CodeBlocks(t *testing.T) {
	plan := strings.Join([]string{
		"## Step",
		"Before code",
		"```go",
		"func main() {",
		"\tprintln(\"hi\")",
		"}",
		"```",
		"After code",
	}, "\n")

	drafts := RenderPlan(plan)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}

	draft := drafts[0]
	wantCode := "func main() {\n\tprintln(\"hi\")\n}"
	if draft.CodeExample != wantCode {
		t.Errorf("code example = %q, want %q", draft.CodeExample, wantCode)
	}
	if draft.Description != "Before code\nAfter code" {
		t.Errorf("description = %q, want %q", draft.Description, "Before code\nAfter code")
	}
}

func TestRenderPlan_HeadingInsideFenceIsNotABoundary(t *testing.T) {
	plan := strings.Join([]string{
		"## Step",
		"Body",
		"```",
		"## not a heading",
		"```",
	}, "\n")

	drafts := RenderPlan(plan)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	if drafts[0].CodeExample != "## not a heading" {
		t.Errorf("code example = %q, want the fenced line", drafts[0].CodeExample)
	}
}

func TestRenderPlan_SecondFenceStaysInDescription(t *testing.T) {
	plan := strings.Join([]string{
		"## Step",
		"Body",
		"```first```",
		"```second```",
	}, "\n")

	drafts := RenderPlan(plan)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	if drafts[0].CodeExample != "first" {
		t.Errorf("code example = %q, want %q", drafts[0].CodeExample, "first")
	}
	if !strings.Contains(drafts[0].Description, "second") {
		t.Errorf("description %q should keep the second block's text", drafts[0].Description)
	}
}

func TestRenderPlan_UnterminatedFence(t *testing.T) {
	plan := "## Step\nBody\n```\ntrailing junk"

	drafts := RenderPlan(plan)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	if drafts[0].CodeExample != "trailing junk" {
		t.Errorf("code example = %q, want the open fence contents", drafts[0].CodeExample)
	}
}
